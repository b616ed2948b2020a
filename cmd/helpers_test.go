package cmd

import "github.com/ArnaudCalmettes/headshot/batch"

func batchOutcome(path, status, reason string) batch.Outcome {
	return batch.Outcome{Path: path, Status: batch.Status(status), Reason: reason, Min: 40, Max: 210}
}
