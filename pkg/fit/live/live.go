// Package live re-runs the fitting solvers on a live surface in staged
// passes.
//
// Text metrics can change after the first paint: a reflow settles, late
// layout shifts land, web fonts finish loading. A [Fitter] therefore runs
// the solvers several times per input:
//
//	layout  immediately, title + card titles + viewport
//	reflow  after Timings.Reflow (50ms), viewport
//	settle  after Timings.Settle (200ms), card titles + viewport
//	fonts   on the font-ready signal or after the font timeout, card titles + viewport
//
// All passes run on one event-loop goroutine, so at most one pass touches
// the surface at a time. Every deferred pass carries the token of the run
// that scheduled it; after [Fitter.Update] or [Fitter.Close] the token is
// stale and the pass is skipped without touching the surface.
package live

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deckfit/pkg/fit"
)

// Pass names one stage of a run.
type Pass string

// Passes in scheduling order.
const (
	PassLayout Pass = "layout"
	PassReflow Pass = "reflow"
	PassSettle Pass = "settle"
	PassFonts  Pass = "fonts"
)

// Timings are the delays of the deferred passes. Zero fields take the
// defaults; a zero FontTimeout uses the plan's fit.Config.FontTimeout.
type Timings struct {
	Reflow      time.Duration
	Settle      time.Duration
	FontTimeout time.Duration
}

// Default pass delays.
const (
	DefaultReflow = 50 * time.Millisecond
	DefaultSettle = 200 * time.Millisecond
)

func (t Timings) withDefaults(cfg fit.Config) Timings {
	if t.Reflow <= 0 {
		t.Reflow = DefaultReflow
	}
	if t.Settle <= 0 {
		t.Settle = DefaultSettle
	}
	if t.FontTimeout <= 0 {
		t.FontTimeout = cfg.WithDefaults().FontTimeout
	}
	return t
}

// PassResult describes a pass that ran.
type PassResult struct {
	Run    uint64
	Pass   Pass
	Report fit.Report
	// TimedOut is set on the fonts pass when the font-ready signal lost
	// the race against the timeout.
	TimedOut bool
}

// FontReady returns a channel that is closed (or receives) once web fonts
// are loaded. It is called once per run.
type FontReady func() <-chan struct{}

// Fitter owns a surface and fits it whenever its input changes.
type Fitter struct {
	surface fit.Surface
	logger  *log.Logger
	timings Timings
	fonts   FontReady
	onPass  func(PassResult)

	queue     chan func()
	stopCh    chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	token   uint64
	current *run

	mu       sync.Mutex
	finished chan struct{}
}

// run is the state of one Update.
type run struct {
	token    uint64
	plan     fit.Plan
	ctx      context.Context
	cancel   context.CancelFunc
	timers   []*time.Timer
	pending  int
	fontsRan bool
	finished chan struct{}
}

// Option configures a Fitter.
type Option func(*Fitter)

// WithLogger sets the logger passes are reported to at debug level.
func WithLogger(l *log.Logger) Option {
	return func(f *Fitter) { f.logger = l }
}

// WithTimings overrides the pass delays.
func WithTimings(t Timings) Option {
	return func(f *Fitter) { f.timings = t }
}

// WithFontReady sets the font-ready signal. Without one the fonts pass
// always waits for the timeout.
func WithFontReady(fn FontReady) Option {
	return func(f *Fitter) { f.fonts = fn }
}

// WithPassHook registers fn to be called on the loop goroutine after every
// pass that ran.
func WithPassHook(fn func(PassResult)) Option {
	return func(f *Fitter) { f.onPass = fn }
}

// New starts a Fitter for s. Call Close to stop it.
func New(s fit.Surface, opts ...Option) *Fitter {
	f := &Fitter{
		surface:  s,
		queue:    make(chan func(), 16),
		stopCh:   make(chan struct{}),
		loopDone: make(chan struct{}),
		finished: closedChan(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	go f.loop()
	return f
}

func (f *Fitter) loop() {
	defer close(f.loopDone)
	for {
		select {
		case task := <-f.queue:
			task()
		case <-f.stopCh:
			f.dispose()
			return
		}
	}
}

// post queues task on the loop. It reports false once the Fitter is closed.
func (f *Fitter) post(task func()) bool {
	select {
	case f.queue <- task:
		return true
	case <-f.stopCh:
		return false
	}
}

// Update disposes the current run and starts a new one for plan. The layout
// pass runs before Update returns and its report is returned; the deferred
// passes follow on their own schedule. After Close, Update returns a skipped
// report.
func (f *Fitter) Update(plan fit.Plan) fit.Report {
	return f.restart(nil, plan).Report
}

// Rebind is Update for replaced content: the current run is disposed, the
// Fitter switches to s and a run for plan starts on it. Passes of the old run
// never touch s.
//
// The returned layout pass carries the new run's token, so pass hook results
// with any other Run belong to runs that were replaced. After Close the
// result has Run 0 and a skipped report.
func (f *Fitter) Rebind(s fit.Surface, plan fit.Plan) PassResult {
	return f.restart(s, plan)
}

func (f *Fitter) restart(s fit.Surface, plan fit.Plan) PassResult {
	closed := PassResult{Pass: PassLayout, Report: fit.Report{Skipped: true}}
	reply := make(chan PassResult, 1)
	ok := f.post(func() {
		f.dispose()
		if s != nil {
			f.surface = s
		}
		reply <- f.start(plan)
	})
	if !ok {
		return closed
	}
	select {
	case r := <-reply:
		return r
	case <-f.loopDone:
		return closed
	}
}

// start runs the layout pass and schedules the deferred passes.
func (f *Fitter) start(plan fit.Plan) PassResult {
	f.token++
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		token:    f.token,
		plan:     plan,
		ctx:      ctx,
		cancel:   cancel,
		pending:  3,
		finished: make(chan struct{}),
	}
	f.current = r
	f.mu.Lock()
	f.finished = r.finished
	f.mu.Unlock()

	report := plan.Routine().Run(f.surface)
	f.record(r, PassLayout, report, false)
	layout := PassResult{Run: r.token, Pass: PassLayout, Report: report}
	if report.Skipped {
		// Nothing to measure, so nothing to re-fit either.
		r.pending = 0
		close(r.finished)
		return layout
	}

	t := f.timings.withDefaults(plan.Config)
	r.timers = append(r.timers,
		f.after(r, t.Reflow, PassReflow, fit.Sequence{plan.ViewportPhase()}),
		f.after(r, t.Settle, PassSettle, fit.Sequence{plan.CardPhase(), plan.ViewportPhase()}),
	)
	f.raceFonts(r, t.FontTimeout)
	return layout
}

// after schedules a deferred pass guarded by the run's token.
func (f *Fitter) after(r *run, d time.Duration, pass Pass, routine fit.Routine) *time.Timer {
	return time.AfterFunc(d, func() {
		f.post(func() {
			if !f.live(r) {
				f.logger.Debug("skipped stale pass", "pass", pass, "run", r.token)
				return
			}
			f.complete(r, pass, routine.Run(f.surface), false)
		})
	})
}

// raceFonts runs the fonts pass once, on whichever of the font-ready
// signal and the timeout comes first.
func (f *Fitter) raceFonts(r *run, timeout time.Duration) {
	var ready <-chan struct{}
	if f.fonts != nil {
		ready = f.fonts()
	}
	go func() {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timedOut := false
		select {
		case <-ready:
		case <-timer.C:
			timedOut = true
		case <-r.ctx.Done():
			return
		}
		f.post(func() {
			if !f.live(r) || r.fontsRan {
				return
			}
			r.fontsRan = true
			routine := fit.Sequence{r.plan.CardPhase(), r.plan.ViewportPhase()}
			f.complete(r, PassFonts, routine.Run(f.surface), timedOut)
		})
	}()
}

func (f *Fitter) live(r *run) bool {
	return f.current == r && r.token == f.token && r.ctx.Err() == nil
}

func (f *Fitter) complete(r *run, pass Pass, report fit.Report, timedOut bool) {
	f.record(r, pass, report, timedOut)
	r.pending--
	if r.pending == 0 {
		close(r.finished)
	}
}

func (f *Fitter) record(r *run, pass Pass, report fit.Report, timedOut bool) {
	kv := []any{"pass", pass, "run", r.token, "skipped", report.Skipped}
	if report.Viewport != nil {
		kv = append(kv, "scale", report.Viewport.Scale)
	}
	if timedOut {
		kv = append(kv, "font_timeout", true)
	}
	f.logger.Debug("fit pass", kv...)
	if f.onPass != nil {
		f.onPass(PassResult{Run: r.token, Pass: pass, Report: report, TimedOut: timedOut})
	}
}

// dispose invalidates the current run: its timers are stopped, its font
// wait is cancelled and any pass already queued sees a stale token.
func (f *Fitter) dispose() {
	r := f.current
	if r == nil {
		return
	}
	f.current = nil
	r.cancel()
	for _, t := range r.timers {
		t.Stop()
	}
	if r.pending > 0 {
		r.pending = 0
		close(r.finished)
	}
	f.logger.Debug("disposed run", "run", r.token)
}

// Done returns a channel closed when the current run has finished all its
// passes or was disposed.
func (f *Fitter) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finished
}

// Wait blocks until the current run is done or ctx ends.
func (f *Fitter) Wait(ctx context.Context) error {
	select {
	case <-f.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disposes the current run and stops the loop. It is safe to call
// more than once.
func (f *Fitter) Close() error {
	f.closeOnce.Do(func() {
		close(f.stopCh)
		<-f.loopDone
	})
	return nil
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
