package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/viva/internal/store"
)

var turnsCmd = &cobra.Command{
	Use:   "turns <session-id>",
	Short: "Show the recorded dialogue turns of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		turns, err := s.EventRepo().TurnsBySession(cmd.Context(), args[0], store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query turns: %w", err)
		}

		if len(turns) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No turns recorded for session %s.\n", args[0])
			return nil
		}

		out := cmd.OutOrStdout()
		r := newReport("Time", "Lang", "Intent", "Mode", "Topic", "Ms", "OK", "Exchange").alignRight(5)
		for _, t := range turns {
			exchange := "> " + oneLine(t.Input, 48) + "\n"
			if t.Success {
				exchange += "< " + oneLine(t.Reply, 48)
			} else {
				exchange += "! " + oneLine(t.ErrorMessage, 48)
			}
			r.row(t.Timestamp.Local().Format("01-02 15:04:05"), t.Lang, t.Intent, t.Mode,
				oneLine(t.Topic, 20), t.LatencyMs, okMark(t.Success), exchange)
		}
		r.print(out)
		return nil
	},
}

// oneLine flattens s and cuts it to max runes.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func init() {
	turnsCmd.Flags().IntP("limit", "n", 0, "Maximum number of turns to show (0 = all)")
}
