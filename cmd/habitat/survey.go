package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hussien-988/habitat-desktop-sub004/internal/config"
	"github.com/hussien-988/habitat-desktop-sub004/internal/drafts"
	"github.com/hussien-988/habitat-desktop-sub004/internal/logger"
	"github.com/hussien-988/habitat-desktop-sub004/internal/repo"
	"github.com/hussien-988/habitat-desktop-sub004/internal/survey"
	"github.com/hussien-988/habitat-desktop-sub004/internal/tui"
)

var resumeDraftID string

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Run the office survey wizard",
	Long: `Walks a clerk through the seven-step office survey: building, unit,
household, persons, relations and evidence, claim type, and review.
Submission files a tenure claim; ctrl+s at any step saves a resumable
draft.`,
	RunE: runSurvey,
}

func init() {
	surveyCmd.Flags().StringVar(&resumeDraftID, "resume", "", "resume a saved draft by id (see 'habitat drafts list')")
}

func runSurvey(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	registry, err := repo.Open(cfg.RegistryDB)
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}
	defer registry.Close()

	ctx := context.Background()
	store, err := drafts.Open(ctx, filepath.Join(cfg.DataDir, "nats"))
	if err != nil {
		return fmt.Errorf("opening draft store: %w", err)
	}
	defer store.Close()

	pruneDrafts(ctx, store, cfg.DraftPrune)

	var hooks *survey.Wizard
	resume := resumeDraftID != ""
	if resume {
		draft, err := store.Load(ctx, resumeDraftID)
		if err != nil {
			return fmt.Errorf("loading draft %s: %w", resumeDraftID, err)
		}
		hooks, err = survey.ResumeWizard(draft.Context, registry, store)
		if err != nil {
			return fmt.Errorf("restoring draft %s: %w", resumeDraftID, err)
		}
	} else {
		clerk := cfg.ClerkID
		if clerk == "" {
			clerk = "clerk-" + cfg.OfficeCode
		}
		hooks = survey.NewWizard(clerk, registry, store)
	}

	if err := tui.Run(hooks, tui.Options{Resume: resume, SkipCancelPrompt: cfg.AutoConfirm}); err != nil {
		return err
	}

	if claim := hooks.Claim(); claim != nil {
		fmt.Printf("Survey %s submitted as claim %s\n",
			hooks.SurveyContext().ReferenceNumber, claim.CaseNumber)
	}
	return nil
}
