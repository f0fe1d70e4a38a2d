package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/viva/internal/llm"
	"github.com/abhisek/viva/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		r := newReport("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK").alignRight(0, 4, 5, 6)
		shown := 0
		for _, e := range events {
			if failedOnly && e.Success {
				continue
			}
			r.row(e.ID, e.Timestamp.Local().Format("01-02 15:04:05"), e.Purpose,
				oneLine(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, okMark(e.Success))
			shown++
		}
		if shown == 0 {
			fmt.Fprintln(out, "No LLM calls recorded.")
			return nil
		}
		r.print(out)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no LLM call with id %d", id)
		}
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "#%d  %s  %s/%s  %s\n", e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Provider, e.Model, e.Purpose)
		fmt.Fprintf(out, "%d in / %d out tokens, %dms, %s\n",
			e.InputTokens, e.OutputTokens, e.LatencyMs, okMark(e.Success))
		if e.ErrorMessage != "" {
			fmt.Fprintf(out, "error: %s\n", e.ErrorMessage)
		}
		section(out, "request", e.RequestBody)
		section(out, "response", e.ResponseBody)
		return nil
	},
}

func section(out io.Writer, title, body string) {
	fmt.Fprintf(out, "\n── %s %s\n", title, strings.Repeat("─", 56-len(title)))
	if body == "" {
		body = "(empty)"
	}
	fmt.Fprintln(out, body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost per purpose and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		usage, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(usage) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		byPurpose := newReport("Purpose", "Model", "Calls", "Failed", "In", "Out", "Avg ms").alignRight(2, 3, 4, 5, 6)
		for _, u := range usage {
			byPurpose.row(u.Purpose, oneLine(u.Model, 28), u.Calls, u.Failures,
				u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		}
		byPurpose.print(out)

		models, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		est := estimateCost(models)
		costs := newReport("Model", "Calls", "In", "Out", "Cost").alignRight(1, 2, 3, 4)
		for _, m := range models {
			cost := "?"
			if c, ok := est.perModel[m.Model]; ok {
				cost = formatCost(c)
			}
			costs.row(oneLine(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost)
		}
		fmt.Fprintln(out)
		costs.print(out)

		if len(est.unpriced) > 0 {
			fmt.Fprintf(out, "Estimated total %s, excluding %s\n", formatCost(est.total), strings.Join(est.unpriced, ", "))
		} else {
			fmt.Fprintf(out, "Estimated total %s\n", formatCost(est.total))
		}
		return nil
	},
}

type costEstimate struct {
	perModel map[string]float64
	total    float64
	unpriced []string
}

// estimateCost prices each model's usage. Models without a known price are
// listed in unpriced and left out of the total.
func estimateCost(models []store.ModelUsage) costEstimate {
	est := costEstimate{perModel: map[string]float64{}}
	for _, m := range models {
		price := llm.LookupCost(m.Model)
		if price == nil {
			est.unpriced = append(est.unpriced, m.Model)
			continue
		}
		c := price.Cost(m.InputTokens, m.OutputTokens)
		est.perModel[m.Model] = c
		est.total += c
	}
	sort.Strings(est.unpriced)
	return est
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose (intent, teach, quiz, answer, simplify, example)")
	llmListCmd.Flags().Bool("failed", false, "Only failed calls")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
