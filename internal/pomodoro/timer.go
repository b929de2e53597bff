// Package pomodoro implements the work / break cycle behind the study timer.
package pomodoro

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// Kind identifies the session type.
type Kind string

const (
	Work       Kind = "work"
	ShortBreak Kind = "shortBreak"
	LongBreak  Kind = "longBreak"
)

// Label is the human-readable session name.
func (k Kind) Label() string {
	switch k {
	case ShortBreak:
		return "Short Break"
	case LongBreak:
		return "Long Break"
	default:
		return "Focus Time"
	}
}

// Settings are the session lengths and how many work sessions precede a
// long break.
type Settings struct {
	Work              time.Duration
	ShortBreak        time.Duration
	LongBreak         time.Duration
	LongBreakInterval int
}

// DefaultSettings is 25/5/15 minutes with a long break every fourth session.
func DefaultSettings() Settings {
	return Settings{
		Work:              25 * time.Minute,
		ShortBreak:        5 * time.Minute,
		LongBreak:         15 * time.Minute,
		LongBreakInterval: 4,
	}
}

func (s Settings) normalized() Settings {
	def := DefaultSettings()
	if s.Work < time.Second {
		s.Work = def.Work
	}
	if s.ShortBreak < time.Second {
		s.ShortBreak = def.ShortBreak
	}
	if s.LongBreak < time.Second {
		s.LongBreak = def.LongBreak
	}
	if s.LongBreakInterval <= 0 {
		s.LongBreakInterval = def.LongBreakInterval
	}
	return s
}

func (s Settings) duration(k Kind) time.Duration {
	switch k {
	case ShortBreak:
		return s.ShortBreak
	case LongBreak:
		return s.LongBreak
	default:
		return s.Work
	}
}

// Transition is emitted when a session runs out.
type Transition struct {
	From      Kind
	To        Kind
	Completed int
	Length    time.Duration
	At        time.Time
}

// Snapshot is a consistent read of the timer state.
type Snapshot struct {
	Kind      Kind
	Remaining int
	Running   bool
	Completed int
	Progress  float64
}

// Format renders the remaining time as MM:SS.
func (s Snapshot) Format() string {
	return Format(s.Remaining)
}

// Timer is safe for concurrent use; the CLI ticks it from one goroutine
// while keyboard commands arrive on another.
type Timer struct {
	mu        sync.Mutex
	settings  Settings
	kind      Kind
	remaining int
	running   bool
	completed int
	now       func() time.Time
}

// New returns a stopped timer at the start of a work session.
func New(settings Settings) *Timer {
	settings = settings.normalized()
	return &Timer{
		settings:  settings,
		kind:      Work,
		remaining: seconds(settings.Work),
		now:       time.Now,
	}
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

// Toggle starts or pauses the countdown and returns the new running state.
func (t *Timer) Toggle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = !t.running
	return t.running
}

// Reset stops the timer and returns to a fresh work session with the
// completed count cleared.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.kind = Work
	t.remaining = seconds(t.settings.Work)
	t.completed = 0
}

// UpdateSettings replaces the session lengths. A stopped timer is rewound to
// the new work length; a running one keeps counting.
func (t *Timer) UpdateSettings(s Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = s.normalized()
	if !t.running {
		t.remaining = seconds(t.settings.Work)
	}
}

// Settings returns the active settings.
func (t *Timer) Settings() Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// Tick advances one second. It returns a Transition when the session ends,
// at which point the timer stops and the next session is loaded.
func (t *Timer) Tick() *Transition {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return nil
	}
	if t.remaining > 1 {
		t.remaining--
		return nil
	}
	return t.complete()
}

func (t *Timer) complete() *Transition {
	tr := &Transition{From: t.kind, Length: t.settings.duration(t.kind), At: t.now()}
	t.running = false
	if t.kind == Work {
		t.completed++
		if t.completed%t.settings.LongBreakInterval == 0 {
			t.kind = LongBreak
		} else {
			t.kind = ShortBreak
		}
	} else {
		t.kind = Work
	}
	t.remaining = seconds(t.settings.duration(t.kind))
	tr.To = t.kind
	tr.Completed = t.completed
	return tr
}

// Snapshot returns the current state.
func (t *Timer) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := seconds(t.settings.duration(t.kind))
	progress := 0.0
	if total > 0 {
		progress = float64(total-t.remaining) / float64(total) * 100
	}
	// remaining may exceed the session length after UpdateSettings.
	progress = math.Max(0, math.Min(100, progress))
	return Snapshot{
		Kind:      t.kind,
		Remaining: t.remaining,
		Running:   t.running,
		Completed: t.completed,
		Progress:  progress,
	}
}

// Progress is the elapsed share of the current session, 0 to 100.
func (t *Timer) Progress() float64 {
	return t.Snapshot().Progress
}

// Format renders the remaining time as MM:SS.
func (t *Timer) Format() string {
	return t.Snapshot().Format()
}

// Run ticks the timer on every value from tick until ctx is done. notify is
// called for each completed session and onTick, when non-nil, after every
// tick with the resulting state.
func (t *Timer) Run(ctx context.Context, tick <-chan time.Time, notify func(Transition), onTick func(Snapshot)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-tick:
			if !ok {
				return nil
			}
			if tr := t.Tick(); tr != nil && notify != nil {
				notify(*tr)
			}
			if onTick != nil {
				onTick(t.Snapshot())
			}
		}
	}
}

// Format renders seconds as zero-padded MM:SS.
func Format(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
