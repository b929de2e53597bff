package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/database"
	"github.com/dharsanguruparan/AkademIQ/internal/repository"
)

// openJournal connects to the study journal. It returns a nil repository
// when no database is configured.
func (a *app) openJournal(ctx context.Context) (*repository.JournalRepository, func(), error) {
	if !a.cfg.JournalEnabled() {
		return nil, func() {}, nil
	}
	pool, err := database.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect journal: %w", err)
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return repository.NewJournalRepository(pool), pool.Close, nil
}

// withJournal runs fn against the journal when one is configured. Journal
// failures are logged and never fail the panel.
func (a *app) withJournal(ctx context.Context, fn func(*repository.JournalRepository) error) {
	repo, closeFn, err := a.openJournal(ctx)
	if err != nil {
		log.Printf("journal unavailable: %v", err)
		return
	}
	defer closeFn()
	if repo == nil {
		return
	}
	if err := fn(repo); err != nil {
		log.Printf("write journal: %v", err)
	}
}

func newJournalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Study history kept in the optional Postgres journal",
	}
	var limit int
	show := &cobra.Command{
		Use:   "show",
		Short: "Show recent quiz attempts, generated artifacts and focus time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, closeFn, err := a.openJournal(ctx)
			if err != nil {
				return a.fail(err)
			}
			defer closeFn()
			if repo == nil {
				return a.fail(fmt.Errorf("journal disabled; set AKADEMIQ_DATABASE_URL"))
			}
			attempts, err := repo.RecentQuizAttempts(ctx, limit)
			if err != nil {
				return a.fail(err)
			}
			a.printf("Quiz attempts\n")
			if len(attempts) == 0 {
				a.printf("  none\n")
			}
			for _, q := range attempts {
				a.printf("  %s  %-6s %2d/%-2d %5.1f%%  %s\n", q.CreatedAt.Local().Format("2006-01-02 15:04"), q.Difficulty, q.Score, q.Total, q.Percentage, q.DocumentID)
			}
			arts, err := repo.RecentArtifacts(ctx, a.session.DocumentID, limit)
			if err != nil {
				return a.fail(err)
			}
			a.printf("Generated\n")
			if len(arts) == 0 {
				a.printf("  none\n")
			}
			for _, art := range arts {
				detail := art.Summary
				if art.ErrorMessage != nil {
					detail = *art.ErrorMessage
				}
				a.printf("  %s  %-20s %-9s %s\n", art.CreatedAt.Local().Format("2006-01-02 15:04"), art.Kind, art.Status, detail)
			}
			now := time.Now()
			midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			sessions, focused, err := repo.FocusTotals(ctx, midnight)
			if err != nil {
				return a.fail(err)
			}
			a.printf("Focus today: %d sessions, %s\n", sessions, focused.Round(time.Minute))
			return nil
		},
	}
	show.Flags().IntVarP(&limit, "limit", "n", 10, "Rows per section")
	cmd.AddCommand(show)
	return cmd
}
