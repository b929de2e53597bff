package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
	"github.com/dharsanguruparan/AkademIQ/internal/playback"
	"github.com/dharsanguruparan/AkademIQ/internal/s3storage"
)

func newPodcastCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "podcast",
		Short: "Turn the current document into a two-host podcast",
	}
	var voice string
	cmd.PersistentFlags().StringVar(&voice, "voice", model.VoiceMaleFemale, "male-male, female-female or male-female")
	cmd.AddCommand(
		newPodcastGenerateCmd(a, &voice),
		&cobra.Command{
			Use:   "audio <script-id>",
			Short: "Synthesize audio for every line of a script",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				audio, err := a.generateAudio(cmd.Context(), args[0], voice)
				if err != nil {
					return a.fail(err)
				}
				for _, l := range audio.Lines {
					a.printf("%3d. Host %d: %s\n", l.LineIndex, l.Speaker, l.Text)
				}
				a.printf("%d lines ready. Play them with \"podcast play %s\".\n", len(audio.Lines), audio.ScriptID)
				return nil
			},
		},
		newPodcastPlayCmd(a, &voice),
		newPodcastArchiveCmd(a, &voice),
	)
	return cmd
}

func newPodcastGenerateCmd(a *app, voice *string) *cobra.Command {
	var archive bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a dialogue script for the current document",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a.printf("Generating podcast script...\n")
			script, err := a.api.GeneratePodcast(ctx, a.session.DocumentID, *voice)
			if err != nil {
				return a.fail(err)
			}
			a.printf("Script %s: %s & %s\n\n", script.ID, script.Speaker1, script.Speaker2)
			for _, line := range script.Dialogue {
				a.printf("%s: %s\n", script.SpeakerName(line), line.Text)
			}
			if !archive {
				return nil
			}
			store, err := a.openArchive(ctx)
			if err != nil {
				return a.fail(err)
			}
			key, err := store.PutScript(ctx, script)
			if err != nil {
				return a.fail(err)
			}
			a.printf("\nArchived script to %s\n", key)
			return nil
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "Store the script in the audio bucket")
	return cmd
}

func (a *app) generateAudio(ctx context.Context, scriptID, voice string) (*model.PodcastAudio, error) {
	a.printf("Generating audio...\n")
	return a.api.GenerateAudio(ctx, scriptID, voice)
}

func newPodcastPlayCmd(a *app, voice *string) *cobra.Command {
	var from int
	cmd := &cobra.Command{
		Use:   "play <script-id>",
		Short: "Play a script's audio with auto-advance",
		Long: `Play a script's audio line by line through AKADEMIQ_AUDIO_PLAYER.
Type s and enter to skip the current line, q to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			play, err := playback.ExecPlayer(a.cfg.AudioPlayer)
			if err != nil {
				return a.fail(err)
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			audio, err := a.generateAudio(ctx, args[0], *voice)
			if err != nil {
				return a.fail(err)
			}
			player := playback.New(a.api, play, a.cfg.WorkerCount)
			go a.playbackControls(ctx, player, cancel)
			err = player.Play(ctx, audio.ScriptID, audio.Lines, from, func(l model.AudioLine) {
				a.printf("▶ %d/%d Host %d: %s\n", l.LineIndex+1, len(audio.Lines), l.Speaker, l.Text)
			})
			if err != nil && ctx.Err() == nil {
				return a.fail(err)
			}
			a.printf("Playback finished\n")
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "Line to start from")
	return cmd
}

func (a *app) playbackControls(ctx context.Context, player *playback.Player, stop context.CancelFunc) {
	for {
		line, err := a.readLine(ctx)
		if err != nil {
			return
		}
		switch strings.ToLower(line) {
		case "s":
			player.Skip()
		case "q":
			stop()
			return
		}
	}
}

func newPodcastArchiveCmd(a *app, voice *string) *cobra.Command {
	var expiry time.Duration
	cmd := &cobra.Command{
		Use:   "archive <script-id>",
		Short: "Copy a script's audio into the audio bucket and print signed links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openArchive(ctx)
			if err != nil {
				return a.fail(err)
			}
			audio, err := a.generateAudio(ctx, args[0], *voice)
			if err != nil {
				return a.fail(err)
			}
			for _, l := range audio.Lines {
				key, err := a.archiveLine(ctx, store, audio.ScriptID, l.LineIndex)
				if err != nil {
					a.report(err)
					continue
				}
				url, err := store.Presign(ctx, key, expiry)
				if err != nil {
					a.report(err)
					continue
				}
				a.printf("%3d. %s\n", l.LineIndex, url)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiry, "expiry", 24*time.Hour, "Lifetime of the signed links")
	return cmd
}

func (a *app) archiveLine(ctx context.Context, store *s3storage.Archive, scriptID string, lineIndex int) (string, error) {
	rc, err := a.api.StreamAudio(ctx, scriptID, lineIndex)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return store.PutLine(ctx, scriptID, lineIndex, rc, -1)
}

func (a *app) openArchive(ctx context.Context) (*s3storage.Archive, error) {
	store, err := s3storage.New(a.cfg)
	if errors.Is(err, s3storage.ErrDisabled) {
		return nil, fmt.Errorf("%w; set AKADEMIQ_S3_ENDPOINT", err)
	}
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
