package main

import (
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/client"
	"github.com/dharsanguruparan/AkademIQ/internal/queue"
	"github.com/dharsanguruparan/AkademIQ/internal/signing"
)

func (a *app) redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	}
}

func newJobsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Queue generation requests for the background worker",
	}
	cmd.AddCommand(newJobsEnqueueCmd(a), newJobsStatusCmd(a))
	return cmd
}

func newJobsEnqueueCmd(a *app) *cobra.Command {
	var p queue.GeneratePayload
	cmd := &cobra.Command{
		Use:   "enqueue <flashcards|quiz|explain|podcast>",
		Short: "Queue a generation job for the current document",
		Long: `Queue a generation job for the current document. Identical requests made
within AKADEMIQ_JOB_UNIQUE_TTL are rejected as duplicates. The worker must share
AKADEMIQ_SIGNING_SECRET with this command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.JobsEnabled() {
				return a.fail(errors.New("set AKADEMIQ_SIGNING_SECRET to the worker's secret"))
			}
			kind, err := queue.KindFor(args[0])
			if err != nil {
				return a.fail(err)
			}
			docID, err := a.documentID()
			if err != nil {
				return a.fail(err)
			}
			if (kind == queue.GenerateQuizTask || kind == queue.GeneratePodcastTask) && !a.session.Authenticated() {
				return a.fail(client.ErrNotAuthenticated)
			}
			p.DocumentID = docID
			p.Token = a.session.Token

			ac := asynq.NewClient(a.redisOpt())
			defer ac.Close()
			enq := queue.NewEnqueuer(ac, signing.NewSigner(a.cfg.SigningSecret), a.cfg.JobUniqueTTL)
			info, err := enq.Enqueue(cmd.Context(), kind, p)
			if errors.Is(err, queue.ErrDuplicate) {
				a.printf("Already queued: %s\n", queue.TaskID(kind, p))
				return nil
			}
			if err != nil {
				return a.fail(err)
			}
			a.printf("Queued %s as %s on %s\n", kind, info.ID, info.Queue)
			return nil
		},
	}
	cmd.Flags().StringVarP(&p.Difficulty, "difficulty", "d", "", "easy, medium or hard")
	cmd.Flags().IntVarP(&p.Count, "count", "n", 0, "Flashcard count")
	cmd.Flags().StringVar(&p.Style, "style", "", "Explanation style")
	cmd.Flags().StringVar(&p.Voice, "voice", "", "Podcast voice option")
	cmd.Flags().BoolVar(&p.WithAudio, "audio", false, "Also synthesize and archive podcast audio")
	return cmd
}

func newJobsStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id>",
		Short: "Show the state of a queued job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insp := asynq.NewInspector(a.redisOpt())
			defer insp.Close()
			info, err := insp.GetTaskInfo("default", args[0])
			if err != nil {
				return a.fail(fmt.Errorf("look up %s: %w", args[0], err))
			}
			a.printf("%s  %s  state=%s retried=%d/%d\n", info.ID, info.Type, info.State, info.Retried, info.MaxRetry)
			if info.LastErr != "" {
				a.printf("last error: %s\n", info.LastErr)
			}
			if !info.CompletedAt.IsZero() {
				a.printf("completed at %s\n", info.CompletedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
