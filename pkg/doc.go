// Package pkg provides the libraries behind deckfit, a layout and fitting
// core for card-deck slides.
//
// # Overview
//
// A slide is a main title above a grid of 1..N cards. Deckfit picks the grid
// for the card count, then fits the rendered slide: the main title shrinks
// until it sits on one line, card titles shrink until they stop wrapping and
// the whole content scales down when it is taller than the viewport. The same
// fit runs natively in Go on a virtual DOM and in the browser as a standalone
// script.
//
//	content.Deck
//	     ↓
//	[layout] (grid descriptor + title range for N cards)
//	     ↓
//	[vdom] (slide tree measured with [measure])
//	     ↓
//	[fit] (title, card-title and viewport solvers)
//	     ↓
//	[render] (SVG, PNG, JSON, script)
//
// # Main Packages
//
// [layout] - Breakpoint table, bucket tiers and title font ranges.
//
// [fit] - The solvers against an abstract [fit.Surface], the routine that
// orders them and the standalone script emitter. [fit/live] schedules the
// staged re-fits of a live surface; [fit/jsrun] runs the script in an
// embedded JavaScript engine to check it agrees with the Go solvers.
//
// [skin] - Per-template constants, built in or loaded from TOML.
//
// [pipeline] - Layout → fit → render with caching, shared by the CLI and
// the HTTP server.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [server] - HTTP API over the pipeline.
//
// [observability] - Hooks for pipeline, cache and request events.
//
// # Quick Start
//
//	deck, _ := content.Load("deck.yaml")
//	sk, _ := skin.Default().Get("aurora")
//	lr := pipeline.Layout(sk, deck.N())
//	frame := pipeline.Fit(deck, sk, lr, measure.NewHeuristic())
//	svg := render.RenderSVG(frame)
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/layout
// [fit]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/fit
// [fit/live]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/fit/live
// [fit/jsrun]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/fit/jsrun
// [skin]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/skin
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/observability
//
// [vdom]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/vdom
// [measure]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/measure
// [render]: https://pkg.go.dev/github.com/matzehuels/deckfit/pkg/render
package pkg
