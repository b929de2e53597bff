package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/client"
	"github.com/dharsanguruparan/AkademIQ/internal/config"
	"github.com/dharsanguruparan/AkademIQ/internal/model"
	"github.com/dharsanguruparan/AkademIQ/internal/storage"
)

// errReported marks a failure whose message was already shown to the user.
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		out:        os.Stdout,
		errOut:     os.Stderr,
		in:         bufio.NewReader(os.Stdin),
		readSecret: terminalSecretReader(int(os.Stdin.Fd())),
	}
	err := newRootCommand(a).ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails.
	a.close()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "akademiq: %v\n", err)
		}
		os.Exit(1)
	}
}

// app is the parent every panel hangs off. It owns the session (token and
// current document) and hands it to subcommands.
type app struct {
	cfg     *config.Config
	store   storage.Store
	session *model.Session
	api     *client.Client

	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader

	// readSecret reads a line without echo; nil when stdin is not a terminal.
	readSecret func() ([]byte, error)

	verbose   bool
	apiBase   string
	statePath string
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "akademiq",
		Short: "AkademIQ study assistant",
		Long: `AkademIQ turns an uploaded PDF into flashcards, quizzes, explanations and
two-host podcasts. Log in, upload a document, then use the study commands.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log every backend request")
	cmd.PersistentFlags().StringVar(&a.apiBase, "api-base", "", "Backend URL (overrides AKADEMIQ_API_BASE)")
	cmd.PersistentFlags().StringVar(&a.statePath, "state", "", "Session state file (overrides AKADEMIQ_STATE_PATH)")
	cmd.AddCommand(
		newAuthCmd(a),
		newUploadCmd(a),
		newDocumentsCmd(a),
		newFlashcardsCmd(a),
		newQuizCmd(a),
		newExplainCmd(a),
		newPodcastCmd(a),
		newTimerCmd(a),
		newJobsCmd(a),
		newJournalCmd(a),
		newHealthCmd(a),
	)
	return cmd
}

// open loads config, the state store and the saved session.
func (a *app) open() error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
	}
	if a.apiBase != "" {
		a.cfg.APIBase = a.apiBase
	}
	if a.statePath != "" {
		a.cfg.StatePath = a.statePath
	}
	if a.store == nil {
		path := ""
		if a.cfg.PersistSession {
			path = a.cfg.StatePath
			if path == "" {
				path = defaultStatePath()
			}
		}
		store, err := storage.Open(path)
		if err != nil {
			return fmt.Errorf("open state: %w", err)
		}
		a.store = store
		if path == "" {
			fmt.Fprintln(a.errOut, "Note: AKADEMIQ_PERSIST_SESSION is off; login, document and cards are forgotten when this command exits.")
		}
	}
	sess, err := a.store.LoadSession()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		sess = &model.Session{}
	case err != nil:
		return fmt.Errorf("load session: %w", err)
	}
	a.session = sess
	a.api = client.New(a.cfg.APIBase, a.cfg.HTTPTimeout, client.WithToken(sess.Token), client.WithVerbose(a.verbose))
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// saveSession persists the current session. Sessions without a token or a
// document are removed instead.
func (a *app) saveSession() error {
	if a.session.Token == "" && a.session.DocumentID == "" {
		return a.store.ClearSession()
	}
	return a.store.SaveSession(a.session)
}

// fail renders err the way every panel does and marks it reported.
func (a *app) fail(err error) error {
	a.report(err)
	return fmt.Errorf("%w: %w", errReported, err)
}

// report shows err without ending the panel.
func (a *app) report(err error) {
	fmt.Fprintf(a.errOut, "Error: %s\n", client.Message(err))
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "akademiq", "state.db")
}
