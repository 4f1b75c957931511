package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/bitlit/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset [learner]",
	Short: "Reset learner data",
	Long:  "Delete every saved snapshot of a learner. The learner starts over at level 1.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := DefaultTerminalLearner
		if len(args) == 1 {
			name = args[0]
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Printf("Delete all progress for %q? [y/N] ", name)
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		if err := s.SnapshotRepo().Delete(cmd.Context(), name); err != nil {
			return fmt.Errorf("delete snapshots: %w", err)
		}
		fmt.Printf("Progress for %q reset.\n", name)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
