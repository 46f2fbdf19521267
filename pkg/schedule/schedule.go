// Package schedule runs recurring background tasks.
//
// Tasks are registered with a fluent builder and dispatched by a single
// scheduler loop:
//
//	schedule.EveryMinute().Run(func() { log.Println("tick") })
//	schedule.Every(5).Minutes().Run(syncStock)
//	schedule.Daily().At("03:00").Name("nightly-purge").Run(purge)
//	schedule.Cron("*/15 * * * *").Run(refreshRates)
//
//	schedule.Start(ctx) // once, at boot
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/vastra/pkg/logger"
)

// Task is the function signature for a scheduled task.
type Task func()

// entry is one registered task plus its timing state.
type entry struct {
	id        string
	interval  time.Duration
	cron      *cronSpec // nil unless registered via Cron
	at        string    // "HH:MM", shifts the first interval run
	task      Task
	noOverlap bool
	before    Task
	after     Task

	mu      sync.Mutex
	nextRun time.Time
	running bool
}

// next computes when the entry should fire after now.
func (e *entry) next(now time.Time) time.Time {
	if e.cron != nil {
		return e.cron.next(now)
	}
	return now.Add(e.interval)
}

// firstRun picks the entry's initial fire time.
func (e *entry) firstRun(now time.Time) time.Time {
	if e.cron != nil {
		return e.cron.next(now)
	}
	if e.at != "" {
		if t, err := time.Parse("15:04", e.at); err == nil {
			candidate := time.Date(now.Year(), now.Month(), now.Day(),
				t.Hour(), t.Minute(), 0, 0, now.Location())
			if !candidate.After(now) {
				candidate = candidate.Add(24 * time.Hour)
			}
			return candidate
		}
		logger.Warn("schedule: bad At() time, running immediately", "id", e.id, "at", e.at)
	}
	return now
}

var (
	regMu   sync.Mutex
	entries []*entry
)

// Schedule is the fluent builder for one entry.
type Schedule struct{ e *entry }

// Every starts a builder that fires every n units.
func Every(n int) *freqBuilder { return &freqBuilder{n: n} }

// EveryMinute fires every 60 seconds.
func EveryMinute() *Schedule { return Every(1).Minutes() }

// Hourly fires every hour.
func Hourly() *Schedule { return Every(1).Hours() }

// Daily fires every 24 hours. Combine with At to pin the time of day.
func Daily() *Schedule { return Every(24).Hours() }

// Weekly fires every 7 days.
func Weekly() *Schedule { return Every(7).Days() }

// Cron registers with a 5-field cron expression (min hour dom mon dow).
func Cron(expr string) *Schedule {
	return &Schedule{e: &entry{cron: parseCron(expr)}}
}

type freqBuilder struct{ n int }

func (f *freqBuilder) Seconds() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Second}}
}
func (f *freqBuilder) Minutes() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Minute}}
}
func (f *freqBuilder) Hours() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * time.Hour}}
}
func (f *freqBuilder) Days() *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * 24 * time.Hour}}
}

// At pins the first run of an interval task to a wall-clock time ("HH:MM").
func (s *Schedule) At(hhmm string) *Schedule {
	s.e.at = hhmm
	return s
}

// WithoutOverlapping skips a run while the previous one is still executing.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Before registers a hook that fires before each run.
func (s *Schedule) Before(fn Task) *Schedule {
	s.e.before = fn
	return s
}

// After registers a hook that fires after each run, panics included.
func (s *Schedule) After(fn Task) *Schedule {
	s.e.after = fn
	return s
}

// Name gives the entry an identifier for logs and `schedule:run` output.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task. Timing starts once Start is called.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn
	regMu.Lock()
	if s.e.id == "" {
		s.e.id = fmt.Sprintf("task-%d", len(entries)+1)
	}
	entries = append(entries, s.e)
	regMu.Unlock()
}

// Start launches the scheduler loop. It stops when ctx is cancelled.
func Start(ctx context.Context) {
	now := time.Now()
	regMu.Lock()
	for _, e := range entries {
		e.nextRun = e.firstRun(now)
	}
	regMu.Unlock()

	go loop(ctx)
	logger.Info("schedule: scheduler started")
}

func loop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: scheduler stopped")
			return
		case now := <-ticker.C:
			regMu.Lock()
			due := make([]*entry, 0)
			for _, e := range entries {
				if !e.nextRun.After(now) {
					e.nextRun = e.next(now)
					due = append(due, e)
				}
			}
			regMu.Unlock()

			for _, e := range due {
				fire(e)
			}
		}
	}
}

func fire(e *entry) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "id", e.id)
		return
	}
	e.running = true
	e.mu.Unlock()

	go func() {
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
			}
			if e.after != nil {
				e.after()
			}
		}()

		if e.before != nil {
			e.before()
		}
		logger.Info("schedule: running task", "id", e.id)
		e.task()
	}()
}

// List describes the registered entries for CLI display.
func List() []string {
	regMu.Lock()
	defer regMu.Unlock()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		freq := e.interval.String()
		if e.cron != nil {
			freq = e.cron.expr
		}
		if e.at != "" {
			freq += " at " + e.at
		}
		out = append(out, fmt.Sprintf("%s  [%s]", e.id, freq))
	}
	return out
}

// ------------------- cron -------------------

// cronSpec is a parsed 5-field cron expression. Each field supports
// "*", exact numbers, "*/step" and "a-b" ranges.
type cronSpec struct {
	expr   string
	fields [5]cronField
	bad    bool
}

type cronField struct {
	any  bool
	step int // >0 for */step
	lo   int
	hi   int // lo==hi for exact values
}

func parseCron(expr string) *cronSpec {
	spec := &cronSpec{expr: expr}
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		spec.bad = true
		return spec
	}
	for i, p := range parts {
		f, ok := parseCronField(p)
		if !ok {
			spec.bad = true
			return spec
		}
		spec.fields[i] = f
	}
	return spec
}

func parseCronField(s string) (cronField, bool) {
	if s == "*" {
		return cronField{any: true}, true
	}
	if rest, ok := strings.CutPrefix(s, "*/"); ok {
		step, err := strconv.Atoi(rest)
		if err != nil || step <= 0 {
			return cronField{}, false
		}
		return cronField{step: step}, true
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok {
		l, err1 := strconv.Atoi(lo)
		h, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil || l > h {
			return cronField{}, false
		}
		return cronField{lo: l, hi: h}, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return cronField{}, false
	}
	return cronField{lo: n, hi: n}, true
}

func (f cronField) match(v int) bool {
	switch {
	case f.any:
		return true
	case f.step > 0:
		return v%f.step == 0
	default:
		return v >= f.lo && v <= f.hi
	}
}

func (c *cronSpec) matches(t time.Time) bool {
	if c.bad {
		return false
	}
	return c.fields[0].match(t.Minute()) &&
		c.fields[1].match(t.Hour()) &&
		c.fields[2].match(t.Day()) &&
		c.fields[3].match(int(t.Month())) &&
		c.fields[4].match(int(t.Weekday()))
}

// next scans forward minute by minute for the next matching time. Cron has
// minute granularity, so runs fire at most once per matching minute.
func (c *cronSpec) next(now time.Time) time.Time {
	if c.bad {
		// Push far enough out that a bad expression never fires.
		return now.Add(24 * 365 * time.Hour)
	}
	t := now.Truncate(time.Minute).Add(time.Minute)
	limit := t.Add(366 * 24 * time.Hour)
	for ; t.Before(limit); t = t.Add(time.Minute) {
		if c.matches(t) {
			return t
		}
	}
	return limit
}
