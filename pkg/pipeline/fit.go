package pipeline

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/matzehuels/deckfit/pkg/cache"
	"github.com/matzehuels/deckfit/pkg/content"
	"github.com/matzehuels/deckfit/pkg/errors"
	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/fit/jsrun"
	"github.com/matzehuels/deckfit/pkg/measure"
	"github.com/matzehuels/deckfit/pkg/render"
	"github.com/matzehuels/deckfit/pkg/skin"
	"github.com/matzehuels/deckfit/pkg/vdom"
)

var goRegular = sync.OnceValue(measure.MustGoRegular)

// Measurer returns the text measurer registered under name.
func Measurer(name string) (measure.Measurer, error) {
	switch name {
	case "", MeasurerHeuristic:
		return measure.NewHeuristic(), nil
	case MeasurerFace:
		return goRegular(), nil
	}
	return nil, ValidateMeasurer(name)
}

// Document builds the slide tree of deck for the layout stage result.
func Document(deck content.Deck, sk skin.Skin, lr LayoutResult, m measure.Measurer) *vdom.Document {
	return vdom.Build(deck, lr.Descriptor, vdom.Options{
		Measurer:    m,
		TitleFontPx: lr.Title.InitialFontSize,
		TopAligned:  sk.TopAligned(),
	})
}

// Fit runs the solvers on a fresh slide tree and captures the frame.
func Fit(deck content.Deck, sk skin.Skin, lr LayoutResult, m measure.Measurer) render.Frame {
	doc := Document(deck, sk, lr, m)
	plan := fit.NewPlan(sk.Fit, lr.Title)
	report := fit.Run(doc, plan)
	return render.NewFrame(sk.Name, deck, lr.Descriptor, lr.Title, report, sk.Config(), doc)
}

// FitWithCacheInfo runs the fit stage with caching and reports whether the
// frame came from cache. Verification and refresh always recompute.
func (r *Runner) FitWithCacheInfo(ctx context.Context, sk skin.Skin, lr LayoutResult, opts Options) (render.Frame, bool, error) {
	m, err := Measurer(opts.Measurer)
	if err != nil {
		return render.Frame{}, false, err
	}
	key := r.Keyer.FrameKey(opts.Deck.Hash(), opts.FrameKeyOpts(sk))
	logger := r.loggerFor(opts)

	if !opts.Refresh && !opts.Verify {
		if data, hit := r.cacheGet(ctx, logger, "frame", key); hit {
			var cached render.Frame
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, true, nil
			}
		}
	}

	frame := Fit(opts.Deck, sk, lr, m)
	if data, err := json.Marshal(frame); err == nil {
		r.cacheSet(ctx, logger, "frame", key, data, cache.TTLFrame)
	}
	return frame, false, nil
}

// Verify executes the standalone script on a fresh tree and checks that it
// reproduces the frame's fitted state.
func (r *Runner) Verify(ctx context.Context, sk skin.Skin, lr LayoutResult, opts Options, frame render.Frame) error {
	m, err := Measurer(opts.Measurer)
	if err != nil {
		return err
	}
	doc := Document(opts.Deck, sk, lr, m)
	script := fit.NewPlan(sk.Fit, lr.Title).Routine().Script()
	if err := jsrun.Run(ctx, doc, script, jsrun.WithFontsReady()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "execute fit script")
	}
	got := fit.Capture(doc, sk.Config())
	if !got.Equal(frame.State) {
		r.loggerFor(opts).Debug("script state diverges", "script", got, "native", frame.State)
		return errors.New(errors.ErrCodeInternal,
			"fit script diverges from native solver (title %s vs %s, transform %q vs %q)",
			got.TitleFontSize, frame.State.TitleFontSize, got.Transform, frame.State.Transform)
	}
	return nil
}

func titleSize(f render.Frame) float64 {
	if f.Report.Title == nil {
		return 0
	}
	return f.Report.Title.FontSize
}

func viewportScale(f render.Frame) float64 {
	if f.Report.Viewport == nil || !f.Report.Viewport.Applied {
		return 1
	}
	return f.Report.Viewport.Scale
}
