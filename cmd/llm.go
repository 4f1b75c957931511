package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/bitlit/internal/api"
	"github.com/abhisek/bitlit/internal/app"
	"github.com/abhisek/bitlit/internal/chat"
	"github.com/abhisek/bitlit/internal/llm"
	"github.com/abhisek/bitlit/internal/store"
)

// tutorPurposes are the purpose labels bitlit records, in display order.
var tutorPurposes = []struct {
	ID    string
	Where string
}{
	{chat.PurposeTutorTurn, "learner turns (POST /api/tutor/turns)"},
	{api.PurposeChatAPI, "stateless chat (POST " + api.ChatPath + ")"},
	{app.PurposeTerminal, "terminal chat (bitlit chat)"},
}

func purposeIDs() []string {
	ids := make([]string, 0, len(tutorPurposes))
	for _, p := range tutorPurposes {
		ids = append(ids, p.ID)
	}
	return ids
}

func purposeWhere(id string) string {
	for _, p := range tutorPurposes {
		if p.ID == id {
			return p.Where
		}
	}
	return "other"
}

// openEventRepo opens the database named by --db for read-only inspection.
func openEventRepo(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect tutor completion calls",
	Long: "Inspect the completion calls made for tutor turns. Every call is labelled with a purpose:\n  " +
		strings.Join(purposeIDs(), ", "),
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tutor calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		if purpose != "" && !slices.Contains(purposeIDs(), purpose) {
			return fmt.Errorf("unknown purpose %q (want one of %s)", purpose, strings.Join(purposeIDs(), ", "))
		}

		s, err := openEventRepo(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if failedOnly {
			events = slices.DeleteFunc(events, func(e store.LLMEvent) bool { return e.Success })
		}
		if len(events) == 0 {
			fmt.Println("No tutor calls found.")
			return nil
		}

		fmt.Printf("%-5s  %-16s  %-13s  %-10s  %-22s  %5s  %5s  %6s  %s\n",
			"ID", "When", "Purpose", "Provider", "Model", "In", "Out", "Ms", "Result")
		fmt.Println(strings.Repeat("─", 104))
		for _, e := range events {
			result := "ok"
			if !e.Success {
				result = "failed: " + truncate(firstLine(e.ErrorMessage), 24)
			}
			fmt.Printf("%-5d  %-16s  %-13s  %-10s  %-22s  %5d  %5d  %6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("01-02 15:04:05"),
				e.Purpose,
				truncate(e.Provider, 10),
				truncate(e.Model, 22),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				result,
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the transcript sent and the reply received for one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openEventRepo(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("Call #%d  %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  purpose   %s (%s)\n", e.Purpose, purposeWhere(e.Purpose))
		fmt.Printf("  backend   %s / %s\n", e.Provider, e.Model)
		fmt.Printf("  usage     %d in, %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
		if cost := llm.LookupCost(e.Model); cost != nil {
			fmt.Printf("  cost      %s\n", formatCost(cost.Cost(e.InputTokens, e.OutputTokens)))
		}
		if !e.Success {
			fmt.Printf("  failed    %s\n", e.ErrorMessage)
		}

		section("Transcript", e.RequestBody)
		section("Tutor reply", e.ResponseBody)
		return nil
	},
}

func section(title, body string) {
	fmt.Println()
	fmt.Println("── " + title + " " + strings.Repeat("─", max(56-len(title), 4)))
	if strings.TrimSpace(body) == "" {
		fmt.Println("(not captured)")
		return
	}
	fmt.Println(strings.TrimRight(body, "\n"))
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show tutor call volume, token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventRepo(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No tutor calls recorded yet.")
			return nil
		}

		usage := make(map[string]store.LLMUsage, len(byPurpose))
		var order []string
		for _, u := range byPurpose {
			usage[u.Purpose] = u
			if !slices.Contains(purposeIDs(), u.Purpose) {
				order = append(order, u.Purpose)
			}
		}
		order = append(purposeIDs(), order...)

		fmt.Println("Calls by purpose")
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("%-14s  %-36s  %6s  %8s  %7s\n", "Purpose", "Source", "Calls", "Tokens", "Avg ms")
		var calls, tokens int
		for _, id := range order {
			u := usage[id]
			fmt.Printf("%-14s  %-36s  %6d  %8d  %7d\n",
				id, purposeWhere(id), u.Calls, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
			calls += u.Calls
			tokens += u.InputTokens + u.OutputTokens
		}
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("%-14s  %-36s  %6d  %8d\n", "TOTAL", "", calls, tokens)

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		fmt.Println()
		fmt.Println("Estimated cost (USD)")
		fmt.Println(strings.Repeat("─", 78))
		var total float64
		var unknown []string
		for _, mu := range byModel {
			cost := llm.LookupCost(mu.Model)
			if cost == nil {
				unknown = append(unknown, mu.Model)
				fmt.Printf("%-32s  %6d calls  %10s\n", truncate(mu.Model, 32), mu.Calls, "?")
				continue
			}
			c := cost.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			fmt.Printf("%-32s  %6d calls  %10s\n", truncate(mu.Model, 32), mu.Calls, formatCost(c))
		}
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("%-32s  %6d calls  %10s\n", "TOTAL", calls, formatCost(total))
		if calls > 0 {
			fmt.Printf("%-32s  %6s        %10s\n", "per tutor reply", "", formatCost(total/float64(calls)))
		}
		if len(unknown) > 0 {
			fmt.Printf("\nPricing unavailable for: %s (totals are partial)\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: "+strings.Join(purposeIDs(), ", "))
	llmListCmd.Flags().Duration("since", 0, "Only show calls newer than this (e.g. 1h)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
