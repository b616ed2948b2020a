package main

import "github.com/ArnaudCalmettes/headshot/cmd"

func main() {
	cmd.Execute()
}
