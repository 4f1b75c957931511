package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bitlit/internal/i18n"
	"github.com/abhisek/bitlit/internal/progress"
	"github.com/abhisek/bitlit/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats [learner]",
	Short: "Show learning statistics",
	Long:  "Show XP, level, achievements and completed modules from the latest snapshot. Without an argument every learner is listed.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.SnapshotRepo()

		names := args
		if len(names) == 0 {
			names, err = repo.Names(ctx)
			if err != nil {
				return fmt.Errorf("list learners: %w", err)
			}
		}
		if len(names) == 0 {
			fmt.Println("No learners found.")
			return nil
		}

		for i, name := range names {
			snap, err := repo.Latest(ctx, name)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			if snap == nil {
				fmt.Printf("%s: no progress saved\n", name)
				continue
			}
			if i > 0 {
				fmt.Println()
			}
			printStats(name, snap)
		}
		return nil
	},
}

func printStats(name string, snap *store.Snapshot) {
	lang, ledger := progress.Decode(snap.Data)
	sum := ledger.Summary()

	fmt.Println(name)
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("%-14s %s\n", "Saved:", snap.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("%-14s %s\n", "Language:", lang)
	fmt.Printf("%-14s %d\n", i18n.T(lang, i18n.Level)+":", sum.Level)
	fmt.Printf("%-14s %d (%d to next level)\n", i18n.T(lang, i18n.XP)+":", sum.XP, sum.XPToNextLevel)

	fmt.Printf("%-14s ", i18n.T(lang, i18n.AchievementsWord)+":")
	if len(sum.Achievements) == 0 {
		fmt.Println("-")
	} else {
		labels := make([]string, 0, len(sum.Achievements))
		for _, a := range sum.Achievements {
			labels = append(labels, a.Icon()+" "+a.Label(lang))
		}
		fmt.Println(strings.Join(labels, ", "))
	}

	fmt.Printf("%-14s ", "Modules:")
	if len(sum.CompletedModules) == 0 {
		fmt.Println("-")
		return
	}
	labels := make([]string, 0, len(sum.CompletedModules))
	for _, m := range sum.CompletedModules {
		labels = append(labels, m.Label(lang))
	}
	fmt.Println(strings.Join(labels, ", "))
}
