package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hussien-988/habitat-desktop-sub004/internal/config"
	"github.com/hussien-988/habitat-desktop-sub004/internal/drafts"
	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Manage saved survey drafts",
}

var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftStore(func(ctx context.Context, store *drafts.Store) error {
			all, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("No drafts saved.")
				return nil
			}
			for _, d := range all {
				fmt.Printf("%-28s %-24s step %d  saved %s\n",
					d.DraftID, d.ReferenceNumber, d.StepIndex+1,
					d.SavedAt.Format("2006-01-02 15:04"))
			}
			return nil
		})
	},
}

var draftsDeleteCmd = &cobra.Command{
	Use:   "delete <draft-id>",
	Short: "Delete a saved draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftStore(func(ctx context.Context, store *drafts.Store) error {
			if err := store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Draft %s deleted.\n", args[0])
			return nil
		})
	},
}

var draftsHistoryCmd = &cobra.Command{
	Use:   "history <reference-number>",
	Short: "Show the audit trail for a survey reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDraftStore(func(ctx context.Context, store *drafts.Store) error {
			events, err := store.History(ctx, args[0])
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No events recorded.")
				return nil
			}
			for _, ev := range events {
				line := fmt.Sprintf("%s  %s/%s", ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Type, ev.Action)
				if ev.Data != "" {
					line += "  " + ev.Data
				}
				fmt.Println(line)
			}
			return nil
		})
	},
}

// withDraftStore opens the draft store for the duration of one command.
func withDraftStore(fn func(context.Context, *drafts.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()
	store, err := drafts.Open(ctx, filepath.Join(cfg.DataDir, "nats"))
	if err != nil {
		return fmt.Errorf("opening draft store: %w", err)
	}
	defer store.Close()

	pruneDrafts(ctx, store, cfg.DraftPrune)

	return fn(ctx, store)
}

// pruneDrafts drops drafts older than the configured retention. Pruning is
// housekeeping; a failure never blocks the command that triggered it.
func pruneDrafts(ctx context.Context, store *drafts.Store, days int) {
	if days <= 0 {
		return
	}
	n, err := store.Prune(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		logger.Warn("Draft pruning failed: %v", err)
		return
	}
	if n > 0 {
		logger.Info("Pruned %d draft(s) older than %d days", n, days)
	}
}

func init() {
	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsDeleteCmd)
	draftsCmd.AddCommand(draftsHistoryCmd)
}
