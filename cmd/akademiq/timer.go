package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/pomodoro"
	"github.com/dharsanguruparan/AkademIQ/internal/repository"
)

func newTimerCmd(a *app) *cobra.Command {
	var work, short, long, interval int
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run a Pomodoro focus timer",
		Long: `Run a Pomodoro focus timer. Press enter to pause or resume, type r to reset,
s to change settings and q to quit. Finished sessions go to the journal when
one is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			settings := a.timerSettings(cmd, work, short, long, interval)
			tm := pomodoro.New(settings)
			tm.Toggle()

			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			go a.timerControls(ctx, tm, cancel)
			a.render(tm.Snapshot())
			err := tm.Run(ctx, ticker.C, func(tr pomodoro.Transition) {
				a.printf("\n%s complete! Next: %s. Press enter to start.\n", tr.From.Label(), tr.To.Label())
				a.recordFocus(ctx, tr)
			}, a.render)
			a.printf("\n")
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&work, "work", 0, "Work minutes (default from AKADEMIQ_TIMER_WORK_MINUTES)")
	cmd.Flags().IntVar(&short, "short", 0, "Short break minutes")
	cmd.Flags().IntVar(&long, "long", 0, "Long break minutes")
	cmd.Flags().IntVar(&interval, "interval", 0, "Work sessions before a long break")
	return cmd
}

// timerSettings layers explicit flags over the configured defaults.
func (a *app) timerSettings(cmd *cobra.Command, work, short, long, interval int) pomodoro.Settings {
	tc := a.cfg.Timer
	if cmd.Flags().Changed("work") {
		tc.WorkMinutes = work
	}
	if cmd.Flags().Changed("short") {
		tc.ShortBreakMinutes = short
	}
	if cmd.Flags().Changed("long") {
		tc.LongBreakMinutes = long
	}
	if cmd.Flags().Changed("interval") {
		tc.LongBreakInterval = interval
	}
	return pomodoro.Settings{
		Work:              time.Duration(tc.WorkMinutes) * time.Minute,
		ShortBreak:        time.Duration(tc.ShortBreakMinutes) * time.Minute,
		LongBreak:         time.Duration(tc.LongBreakMinutes) * time.Minute,
		LongBreakInterval: tc.LongBreakInterval,
	}
}

func (a *app) render(s pomodoro.Snapshot) {
	const width = 20
	filled := int(s.Progress / 100 * width)
	if filled < 0 {
		filled = 0
	} else if filled > width {
		filled = width
	}
	state := "running"
	if !s.Running {
		state = "paused "
	}
	a.printf("\r%-11s %s [%s%s] %s  done: %d ", s.Kind.Label(), s.Format(),
		strings.Repeat("#", filled), strings.Repeat("-", width-filled), state, s.Completed)
}

func (a *app) timerControls(ctx context.Context, tm *pomodoro.Timer, stop context.CancelFunc) {
	for {
		line, err := a.readLine(ctx)
		if err != nil {
			stop()
			return
		}
		switch strings.ToLower(line) {
		case "":
			tm.Toggle()
		case "r":
			tm.Reset()
		case "s":
			a.changeSettings(ctx, tm)
		case "q":
			stop()
			return
		}
		a.render(tm.Snapshot())
	}
}

func (a *app) changeSettings(ctx context.Context, tm *pomodoro.Timer) {
	cur := tm.Settings()
	next := cur
	fields := []struct {
		label string
		dst   *time.Duration
	}{
		{"Work minutes", &next.Work},
		{"Short break minutes", &next.ShortBreak},
		{"Long break minutes", &next.LongBreak},
	}
	a.printf("\n")
	for _, f := range fields {
		ans, err := a.ask(ctx, f.label, strconv.Itoa(int(*f.dst/time.Minute)))
		if err != nil {
			return
		}
		if n, err := strconv.Atoi(ans); err == nil && n > 0 {
			*f.dst = time.Duration(n) * time.Minute
		}
	}
	ans, err := a.ask(ctx, "Long break interval", strconv.Itoa(cur.LongBreakInterval))
	if err != nil {
		return
	}
	if n, err := strconv.Atoi(ans); err == nil && n > 0 {
		next.LongBreakInterval = n
	}
	tm.UpdateSettings(next)
}

func (a *app) recordFocus(ctx context.Context, tr pomodoro.Transition) {
	a.withJournal(ctx, func(repo *repository.JournalRepository) error {
		return repo.RecordFocusSession(ctx, &repository.FocusSession{
			Kind:           string(tr.From),
			Duration:       tr.Length,
			CompletedCount: tr.Completed,
			FinishedAt:     tr.At.UTC(),
		})
	})
}
