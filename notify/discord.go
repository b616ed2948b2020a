// Package notify reports finished batches.
package notify

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ArnaudCalmettes/headshot/batch"
	"github.com/bwmarrin/discordgo"
)

const (
	maxMessage     = 2000 // Discord's limit
	maxSkippedRows = 20
)

// Discord posts batch summaries to a Discord channel.
type Discord struct {
	Token     string
	ChannelID string
}

// Enabled returns true if the notifier has somewhere to post.
func (d Discord) Enabled() bool {
	return d.Token != "" && d.ChannelID != ""
}

// Send posts a summary of the batch.
func (d Discord) Send(sum *batch.Summary) error {
	dg, err := discordgo.New("Bot " + d.Token)
	if err != nil {
		return fmt.Errorf("couldn't create Discord session: %w", err)
	}
	if _, err := dg.ChannelMessageSend(d.ChannelID, Format(sum)); err != nil {
		return fmt.Errorf("couldn't post summary: %w", err)
	}
	return nil
}

// Format renders a summary as a Discord message.
func Format(sum *batch.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📸 `%s`\n%s\n", sum.Root, sum)
	if sum.MetadataError != "" {
		fmt.Fprintf(&b, "⚠️  metadata: %s\n", sum.MetadataError)
	}

	if sum.Skipped > 0 {
		var t strings.Builder
		w := tabwriter.NewWriter(&t, 5, 0, 3, ' ', 0)
		fmt.Fprintln(w, "IMAGE\tREASON\t")
		rows := 0
		for _, o := range sum.Outcomes {
			if o.Status != batch.StatusSkipped {
				continue
			}
			if rows == maxSkippedRows {
				fmt.Fprintf(w, "… and %d more\t\t\n", sum.Skipped-rows)
				break
			}
			fmt.Fprintf(w, "%s\t%s\t\n", o.Path, o.Reason)
			rows++
		}
		w.Flush()
		b.WriteString("```" + t.String() + "```")
	}

	msg := b.String()
	if len(msg) > maxMessage {
		msg = strings.ToValidUTF8(msg[:maxMessage-len("…```")], "") + "…```"
	}
	return msg
}
