package playback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dharsanguruparan/AkademIQ/internal/model"
)

type fakeStreamer struct {
	mu      sync.Mutex
	fail    map[int]bool
	fetched []int
}

func (f *fakeStreamer) StreamAudio(ctx context.Context, scriptID string, line int) (io.ReadCloser, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, line)
	f.mu.Unlock()
	if f.fail[line] {
		return nil, errors.New("boom")
	}
	return io.NopCloser(strings.NewReader(fmt.Sprintf("%s:%d", scriptID, line))), nil
}

func lines(n int) []model.AudioLine {
	out := make([]model.AudioLine, n)
	for i := range out {
		out[i] = model.AudioLine{LineIndex: i, Speaker: 1 + i%2, Text: fmt.Sprintf("line %d", i), AudioURL: fmt.Sprintf("/audio/%d.wav", i)}
	}
	return out
}

func TestPlayInOrder(t *testing.T) {
	streamer := &fakeStreamer{fail: map[int]bool{2: true}}
	var played []string
	play := func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		played = append(played, string(data))
		return nil
	}
	p := New(streamer, play, 3)
	var announced []int
	err := p.Play(context.Background(), "s-1", lines(5), 0, func(l model.AudioLine) { announced = append(announced, l.LineIndex) })
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	want := []string{"s-1:0", "s-1:1", "s-1:3", "s-1:4"}
	if strings.Join(played, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected order %v", played)
	}
	if len(announced) != 4 || announced[2] != 3 {
		t.Fatalf("unexpected announcements %v", announced)
	}
	if p.Current() != -1 {
		t.Fatalf("player should be idle after the last line")
	}
}

func TestPlaySkipsLinesWithoutAudio(t *testing.T) {
	streamer := &fakeStreamer{}
	var played []string
	p := New(streamer, func(ctx context.Context, path string) error {
		data, _ := os.ReadFile(path)
		played = append(played, string(data))
		return nil
	}, 2)
	script := lines(4)
	script[1].AudioURL = ""
	if err := p.Play(context.Background(), "s", script, 0, nil); err != nil {
		t.Fatalf("play: %v", err)
	}
	if strings.Join(played, ",") != "s:0,s:2,s:3" {
		t.Fatalf("unexpected playback %v", played)
	}
	streamer.mu.Lock()
	defer streamer.mu.Unlock()
	for _, line := range streamer.fetched {
		if line == 1 {
			t.Fatalf("line without audio should not be streamed")
		}
	}
}

func TestPlayFromOffset(t *testing.T) {
	var played []string
	p := New(&fakeStreamer{}, func(ctx context.Context, path string) error {
		data, _ := os.ReadFile(path)
		played = append(played, string(data))
		return nil
	}, 1)
	if err := p.Play(context.Background(), "s", lines(3), 2, nil); err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(played) != 1 || played[0] != "s:2" {
		t.Fatalf("unexpected playback %v", played)
	}
	if err := p.Play(context.Background(), "s", lines(3), 4, nil); err == nil {
		t.Fatalf("expected out of range start to fail")
	}
}

func TestSkipAdvancesToNextLine(t *testing.T) {
	started := make(chan int, 4)
	var played []int
	var mu sync.Mutex
	p := New(&fakeStreamer{}, nil, 2)
	p.play = func(ctx context.Context, path string) error {
		idx := p.Current()
		mu.Lock()
		played = append(played, idx)
		mu.Unlock()
		started <- idx
		if idx == 0 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- p.Play(context.Background(), "s", lines(2), 0, nil) }()
	if idx := <-started; idx != 0 {
		t.Fatalf("expected first line, got %d", idx)
	}
	p.Skip()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("play: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("skip did not unblock playback")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(played) != 2 || played[1] != 1 {
		t.Fatalf("unexpected playback %v", played)
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(&fakeStreamer{}, func(c context.Context, path string) error {
		cancel()
		<-c.Done()
		return c.Err()
	}, 1)
	if err := p.Play(ctx, "s", lines(3), 0, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExecPlayerRejectsEmptyCommand(t *testing.T) {
	if _, err := ExecPlayer("   "); err == nil {
		t.Fatalf("expected error for empty command")
	}
	if _, err := ExecPlayer("definitely-not-a-real-player-binary"); err == nil {
		t.Fatalf("expected lookup failure")
	}
}
