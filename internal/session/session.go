// Package session runs a single typing test: input, the one-second tick,
// completion and scoring.
package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/scoring"
)

// CelebrateAccuracy is the accuracy a matched test needs for a celebration.
const CelebrateAccuracy = 90.0

// DateLayout formats the leaderboard date label.
const DateLayout = "1/2/2006"

var (
	// ErrRunning is returned when the duration changes mid-test.
	ErrRunning = errors.New("session: test is running")
	// ErrInvalidDuration is returned for durations outside model.Durations.
	ErrInvalidDuration = errors.New("session: invalid duration")
)

// Phase is the lifecycle state of a test.
type Phase int

const (
	// Idle waits for the first keystroke.
	Idle Phase = iota
	// Running counts elapsed seconds.
	Running
	// Complete holds the final outcome until reset.
	Complete
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Reason tells why a test completed.
type Reason int

const (
	// Matched means the typed text equals the sample.
	Matched Reason = iota + 1
	// Timeout means elapsed reached the duration.
	Timeout
)

func (r Reason) String() string {
	switch r {
	case Matched:
		return "matched"
	case Timeout:
		return "timeout"
	default:
		return "none"
	}
}

// Event reports what an input or tick did.
type Event int

const (
	// EventNone means nothing the caller must act on.
	EventNone Event = iota
	// EventStarted means a tick handle was opened; schedule the first tick.
	EventStarted
	// EventTick means the tick was accepted; schedule the next one.
	EventTick
	// EventCompleted means the test ended; see Outcome.
	EventCompleted
)

// Outcome is the result of a completed test. Rank is the 1-based leaderboard
// position, 0 when not placed. SaveErr is set when persisting failed.
type Outcome struct {
	Reason    Reason
	Result    scoring.Result
	Qualified bool
	Rank      int
	Celebrate bool
	SaveErr   error
}

// Picker supplies sample sentences.
type Picker interface {
	Pick() string
}

// Submitter receives completed results.
type Submitter interface {
	Submit(ctx context.Context, result scoring.Result, sampleText, dateLabel string, duration int) (int, error)
}

// Recorder stores the history of completed tests.
type Recorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithDuration sets the initial duration. Invalid values are ignored.
func WithDuration(seconds int) Option {
	return func(c *Controller) {
		if model.ValidDuration(seconds) {
			c.duration = seconds
		}
	}
}

// WithClock overrides the time source used for date labels and history.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithHistory records every completed test.
func WithHistory(r Recorder) Option {
	return func(c *Controller) { c.history = r }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// Controller owns the state of the current test. It is driven from a single
// event loop and is not safe for concurrent use.
type Controller struct {
	picker  Picker
	board   Submitter
	history Recorder
	log     *zap.Logger
	now     func() time.Time

	sample   string
	typed    string
	elapsed  int
	duration int
	phase    Phase
	outcome  *Outcome

	// timerID changes on every start and stop so ticks scheduled for an
	// older handle are dropped.
	timerID int
	ticking bool
}

// New returns an idle controller with a fresh sample.
func New(picker Picker, board Submitter, opts ...Option) *Controller {
	c := &Controller{
		picker:   picker,
		board:    board,
		log:      zap.NewNop(),
		now:      time.Now,
		duration: model.DefaultDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Sample returns the sentence being typed.
func (c *Controller) Sample() string { return c.sample }

// Typed returns the current input.
func (c *Controller) Typed() string { return c.typed }

// Elapsed returns the elapsed seconds.
func (c *Controller) Elapsed() int { return c.elapsed }

// Duration returns the selected duration in seconds.
func (c *Controller) Duration() int { return c.duration }

// Phase returns the lifecycle state.
func (c *Controller) Phase() Phase { return c.phase }

// TimerID returns the id ticks must carry to be accepted.
func (c *Controller) TimerID() int { return c.timerID }

// Outcome returns the completed outcome, if any.
func (c *Controller) Outcome() (Outcome, bool) {
	if c.outcome == nil {
		return Outcome{}, false
	}
	return *c.outcome, true
}

// LiveResult scores the current input at the current elapsed time.
func (c *Controller) LiveResult() scoring.Result {
	return scoring.Score(c.typed, c.sample, c.elapsed)
}

// Flags returns per-character correctness of the sample.
func (c *Controller) Flags() []scoring.Flag {
	return scoring.Flags(c.typed, c.sample)
}

// Input replaces the typed text. The first non-empty input starts the test
// and an exact match completes it. Input after completion is ignored.
func (c *Controller) Input(ctx context.Context, value string) Event {
	if c.phase == Complete {
		return EventNone
	}
	c.typed = value
	event := EventNone
	if c.phase == Idle && value != "" {
		c.phase = Running
		c.startTimer()
		c.log.Debug("test started", zap.Int("duration", c.duration), zap.Int("timer", c.timerID))
		event = EventStarted
	}
	if c.phase == Running && value == c.sample {
		c.complete(ctx, Matched)
		return EventCompleted
	}
	return event
}

// Tick advances elapsed time by one second for the handle id. Ticks for
// stale handles or outside a running test are ignored.
func (c *Controller) Tick(ctx context.Context, id int) Event {
	if !c.ticking || id != c.timerID || c.phase != Running {
		return EventNone
	}
	c.elapsed++
	if c.elapsed >= c.duration {
		c.elapsed = c.duration
		c.complete(ctx, Timeout)
		return EventCompleted
	}
	return EventTick
}

// Reset cancels the tick and starts over with a new sample.
func (c *Controller) Reset() {
	c.stopTimer()
	c.sample = c.picker.Pick()
	c.typed = ""
	c.elapsed = 0
	c.phase = Idle
	c.outcome = nil
}

// SelectDuration changes the duration while no test is running.
func (c *Controller) SelectDuration(seconds int) error {
	if c.phase == Running {
		return ErrRunning
	}
	if !model.ValidDuration(seconds) {
		return ErrInvalidDuration
	}
	c.duration = seconds
	return nil
}

func (c *Controller) startTimer() {
	c.timerID++
	c.ticking = true
}

func (c *Controller) stopTimer() {
	if c.ticking {
		c.timerID++
	}
	c.ticking = false
}

func (c *Controller) complete(ctx context.Context, reason Reason) {
	c.stopTimer()
	c.phase = Complete

	result := scoring.Score(c.typed, c.sample, c.elapsed)
	out := Outcome{
		Reason:    reason,
		Result:    result,
		Qualified: scoring.Qualifies(result),
		Celebrate: reason == Matched && result.Accuracy >= CelebrateAccuracy,
	}
	now := c.now()
	if c.board != nil {
		rank, err := c.board.Submit(ctx, result, c.sample, now.Format(DateLayout), c.duration)
		out.Rank = rank
		if err != nil {
			out.SaveErr = err
			c.log.Error("failed to save leaderboard", zap.Error(err))
		}
	}
	if c.history != nil {
		rec := model.SessionRecord{
			EndedAt:   now,
			Duration:  c.duration,
			Elapsed:   c.elapsed,
			WPM:       result.WPM,
			Accuracy:  result.Accuracy,
			Reason:    reason.String(),
			Text:      c.sample,
			Qualified: out.Qualified,
		}
		if _, err := c.history.InsertSession(ctx, rec); err != nil {
			c.log.Warn("failed to record session", zap.Error(err))
		}
	}
	c.outcome = &out
	c.log.Info("test complete",
		zap.Stringer("reason", reason),
		zap.Int("elapsed", c.elapsed),
		zap.Int("wpm", result.WPM),
		zap.Float64("accuracy", result.Accuracy),
		zap.Bool("qualified", out.Qualified),
		zap.Int("rank", out.Rank))
}
