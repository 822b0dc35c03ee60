// Package jsrun executes emitted fitting scripts in an embedded JavaScript
// engine against a fit.Surface.
//
// The engine sees a minimal document/window shim: querySelector,
// querySelectorAll, getBoundingClientRect, scrollWidth, clientWidth,
// element.style and window.getComputedStyle. That is exactly the DOM
// surface the scripts are allowed to use, so a script that runs here runs
// in a browser, and a script run here against a headless document ends in
// the same state as the Go solvers.
package jsrun

import (
	"context"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/matzehuels/deckfit/pkg/fit"
	"github.com/matzehuels/deckfit/pkg/layout"
)

const handleProp = "__deckfitHandle"

// Option configures a run.
type Option func(*env)

// WithFontsReady installs document.fonts.ready as an already-resolved
// thenable, so the script takes its font-gated path.
func WithFontsReady() Option {
	return func(e *env) { e.fonts = true }
}

// WithLoading makes the document report readyState "loading"; the run
// fires DOMContentLoaded after the script body returns.
func WithLoading() Option {
	return func(e *env) { e.loading = true }
}

type env struct {
	vm      *goja.Runtime
	s       fit.Surface
	fonts   bool
	loading bool

	elements  map[fit.Handle]*goja.Object
	listeners []goja.Callable
	timers    map[int64]goja.Callable
	nextTimer int64
}

// Run executes script against s. A surface that is not ready gets no
// document or window at all, matching a non-browser context. Run stops the
// script when ctx ends.
func Run(ctx context.Context, s fit.Surface, script string, opts ...Option) error {
	e := &env{
		vm:       goja.New(),
		s:        s,
		elements: make(map[fit.Handle]*goja.Object),
		timers:   make(map[int64]goja.Callable),
	}
	for _, opt := range opts {
		opt(e)
	}
	if s != nil && s.Ready() {
		if err := e.install(); err != nil {
			return fmt.Errorf("install dom shim: %w", err)
		}
	}

	stop := context.AfterFunc(ctx, func() { e.vm.Interrupt(ctx.Err()) })
	defer stop()

	if _, err := e.vm.RunString(script); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	for _, fn := range e.listeners {
		if _, err := fn(goja.Undefined()); err != nil {
			return fmt.Errorf("DOMContentLoaded handler: %w", err)
		}
	}
	// Timers still pending would fire in a browser; the fonts gate clears
	// its own, so anything left here runs once.
	for len(e.timers) > 0 {
		for id, fn := range e.timers {
			delete(e.timers, id)
			if _, err := fn(goja.Undefined()); err != nil {
				return fmt.Errorf("timer callback: %w", err)
			}
		}
	}
	return nil
}

func (e *env) install() error {
	vm := e.vm
	doc := vm.NewObject()
	state := "complete"
	if e.loading {
		state = "loading"
	}
	sets := []struct {
		obj  *goja.Object
		name string
		val  any
	}{
		{doc, "readyState", state},
		{doc, "querySelector", e.querySelector},
		{doc, "querySelectorAll", e.querySelectorAll},
		{doc, "addEventListener", e.addEventListener},
	}
	if e.fonts {
		sets = append(sets, struct {
			obj  *goja.Object
			name string
			val  any
		}{doc, "fonts", e.fontFaceSet()})
	}
	for _, s := range sets {
		if err := s.obj.Set(s.name, s.val); err != nil {
			return err
		}
	}

	win := vm.GlobalObject()
	for name, val := range map[string]any{
		"document":         doc,
		"window":           win,
		"getComputedStyle": e.getComputedStyle,
		"setTimeout":       e.setTimeout,
		"clearTimeout":     e.clearTimeout,
	} {
		if err := win.Set(name, val); err != nil {
			return err
		}
	}
	return nil
}

func (e *env) querySelector(call goja.FunctionCall) goja.Value {
	hs := e.s.Query(call.Argument(0).String())
	if len(hs) == 0 {
		return goja.Null()
	}
	return e.element(hs[0])
}

func (e *env) querySelectorAll(call goja.FunctionCall) goja.Value {
	hs := e.s.Query(call.Argument(0).String())
	els := make([]any, len(hs))
	for i, h := range hs {
		els[i] = e.element(h)
	}
	return e.vm.NewArray(els...)
}

func (e *env) addEventListener(call goja.FunctionCall) goja.Value {
	if call.Argument(0).String() != "DOMContentLoaded" {
		return goja.Undefined()
	}
	if fn, ok := goja.AssertFunction(call.Argument(1)); ok {
		e.listeners = append(e.listeners, fn)
	}
	return goja.Undefined()
}

func (e *env) getComputedStyle(call goja.FunctionCall) goja.Value {
	h, ok := e.handleOf(call.Argument(0))
	if !ok {
		panic(e.vm.NewTypeError("getComputedStyle: argument is not an element"))
	}
	st := e.vm.NewObject()
	_ = st.Set("fontSize", layout.CSSLength(e.s.ComputedFontSize(h)))
	return st
}

func (e *env) setTimeout(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		return e.vm.ToValue(0)
	}
	e.nextTimer++
	e.timers[e.nextTimer] = fn
	return e.vm.ToValue(e.nextTimer)
}

func (e *env) clearTimeout(call goja.FunctionCall) goja.Value {
	delete(e.timers, call.Argument(0).ToInteger())
	return goja.Undefined()
}

// fontFaceSet returns {ready: thenable} whose then calls its first
// argument synchronously.
func (e *env) fontFaceSet() *goja.Object {
	ready := e.vm.NewObject()
	_ = ready.Set("then", func(call goja.FunctionCall) goja.Value {
		if fn, ok := goja.AssertFunction(call.Argument(0)); ok {
			_, _ = fn(goja.Undefined())
		}
		return goja.Undefined()
	})
	fonts := e.vm.NewObject()
	_ = fonts.Set("ready", ready)
	return fonts
}

func (e *env) handleOf(v goja.Value) (fit.Handle, bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0, false
	}
	obj := v.ToObject(e.vm)
	hv := obj.Get(handleProp)
	if hv == nil || goja.IsUndefined(hv) {
		return 0, false
	}
	return fit.Handle(hv.ToInteger()), true
}

// element returns the shim object for h, creating it on first use so that
// repeated queries return the identical object.
func (e *env) element(h fit.Handle) *goja.Object {
	if el, ok := e.elements[h]; ok {
		return el
	}
	vm := e.vm
	el := vm.NewObject()
	_ = el.DefineDataProperty(handleProp, vm.ToValue(int64(h)), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	_ = el.Set("getBoundingClientRect", func(goja.FunctionCall) goja.Value {
		m := e.s.Measure(h)
		r := vm.NewObject()
		_ = r.Set("width", m.Width)
		_ = r.Set("height", m.Height)
		return r
	})
	e.getter(el, "scrollWidth", func() any { return e.s.Measure(h).ScrollWidth })
	e.getter(el, "clientWidth", func() any { return e.s.Measure(h).ClientWidth })

	style := vm.NewObject()
	for _, prop := range []string{fit.PropFontSize, fit.PropTransform, fit.PropTransformOrigin} {
		prop := prop
		get := vm.ToValue(func(goja.FunctionCall) goja.Value {
			return vm.ToValue(e.s.Style(h, prop))
		})
		set := vm.ToValue(func(call goja.FunctionCall) goja.Value {
			e.s.SetStyle(h, prop, call.Argument(0).String())
			return goja.Undefined()
		})
		_ = style.DefineAccessorProperty(camel(prop), get, set, goja.FLAG_FALSE, goja.FLAG_TRUE)
	}
	_ = el.Set("style", style)

	e.elements[h] = el
	return el
}

func (e *env) getter(obj *goja.Object, name string, fn func() any) {
	get := e.vm.ToValue(func(goja.FunctionCall) goja.Value { return e.vm.ToValue(fn()) })
	_ = obj.DefineAccessorProperty(name, get, nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// camel converts a CSS property name to its CSSStyleDeclaration key.
func camel(prop string) string {
	parts := strings.Split(prop, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
