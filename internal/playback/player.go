// Package playback plays podcast audio lines in order. A small pool of
// goroutines fetches upcoming lines into temp files while the current line
// is playing, so auto-advance does not wait on the network.
package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

// Streamer opens the audio of one script line. *client.Client satisfies it.
type Streamer interface {
	StreamAudio(ctx context.Context, scriptID string, lineIndex int) (io.ReadCloser, error)
}

// PlayFunc plays the audio file at path and returns when playback ends.
type PlayFunc func(ctx context.Context, path string) error

// ExecPlayer runs an external command such as "ffplay -nodisp -autoexit"
// with the file path appended as the last argument.
func ExecPlayer(command string) (PlayFunc, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, errors.New("audio player command is empty")
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("find audio player %q: %w", args[0], err)
	}
	return func(ctx context.Context, path string) error {
		cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
		cmd.Stdout = io.Discard
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}, nil
}

// fetched is the outcome of prefetching one line.
type fetched struct {
	path string
	err  error
}

type job struct {
	index int
	line  model.AudioLine
}

// Player coordinates prefetching and sequential playback.
type Player struct {
	streamer Streamer
	play     PlayFunc
	workers  int
	tempDir  string

	mu      sync.Mutex
	current int
	skip    context.CancelFunc
}

// New builds a Player. workers bounds concurrent downloads.
func New(streamer Streamer, play PlayFunc, workers int) *Player {
	if workers <= 0 {
		workers = 1
	}
	return &Player{streamer: streamer, play: play, workers: workers, current: -1}
}

// Current is the index into the played lines, or -1 when idle.
func (p *Player) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Skip stops the line that is playing; playback continues with the next.
func (p *Player) Skip() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.skip != nil {
		p.skip()
	}
}

// Play streams and plays lines in order starting at from. onLine, when set,
// is called just before each line starts. Lines without an audio asset are
// skipped silently. A line that fails to download is logged and skipped;
// cancellation of ctx stops everything.
func (p *Player) Play(ctx context.Context, scriptID string, lines []model.AudioLine, from int, onLine func(model.AudioLine)) error {
	if from < 0 || from > len(lines) {
		return fmt.Errorf("start line %d out of range", from)
	}
	lines = lines[from:]
	if len(lines) == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	dir, err := os.MkdirTemp(p.tempDir, "akademiq-audio-*")
	if err != nil {
		return fmt.Errorf("create audio temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	results := make([]chan fetched, len(lines))
	for i := range results {
		results[i] = make(chan fetched, 1)
	}
	queue := make(chan job, p.workers*4)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, scriptID, dir, queue, results)
		}()
	}
	go func() {
		defer close(queue)
		for i, line := range lines {
			if !line.HasAudio() {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case queue <- job{index: i, line: line}:
			}
		}
	}()
	defer wg.Wait()
	defer cancel()

	for i, line := range lines {
		if !line.HasAudio() {
			continue
		}
		var res fetched
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res = <-results[i]:
		}
		if res.err != nil {
			log.Printf("fetch audio line %d: %v", line.LineIndex, res.err)
			continue
		}
		if err := p.playLine(ctx, from+i, line, res.path, onLine); err != nil {
			return err
		}
	}
	p.mu.Lock()
	p.current = -1
	p.mu.Unlock()
	return nil
}

func (p *Player) playLine(ctx context.Context, index int, line model.AudioLine, path string, onLine func(model.AudioLine)) error {
	lineCtx, skip := context.WithCancel(ctx)
	defer skip()
	p.mu.Lock()
	p.current = index
	p.skip = skip
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.skip = nil
		p.mu.Unlock()
		os.Remove(path)
	}()

	if onLine != nil {
		onLine(line)
	}
	err := p.play(lineCtx, path)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil && lineCtx.Err() == nil {
		log.Printf("play audio line %d: %v", line.LineIndex, err)
	}
	return nil
}

func (p *Player) worker(ctx context.Context, scriptID, dir string, queue <-chan job, results []chan fetched) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-queue:
			if !ok {
				return
			}
			path, err := p.fetch(ctx, scriptID, dir, j)
			results[j.index] <- fetched{path: path, err: err}
		}
	}
}

func (p *Player) fetch(ctx context.Context, scriptID, dir string, j job) (string, error) {
	rc, err := p.streamer.StreamAudio(ctx, scriptID, j.line.LineIndex)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	f, err := os.CreateTemp(dir, fmt.Sprintf("line-%03d-*.wav", j.line.LineIndex))
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return "", fmt.Errorf("write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close audio file: %w", err)
	}
	return f.Name(), nil
}
