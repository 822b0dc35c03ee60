// Package fit shrinks slide text and scales slide content until they fit
// the 1920×1080 canvas.
//
// Three solvers run in a fixed order:
//
//   - [SolveTitle] decrements the main title's font size until its rendered
//     width is within [Config.MaxTitleWidthPx] or the minimum is reached.
//   - [ClampCardTitles] does the same for every card title, using each
//     element's own scroll and client width, and never shrinks more than
//     [Config.CardTitleShrinkRatio] below the CSS size.
//   - [FitViewport] scales the content wrapper down uniformly when its
//     natural height exceeds [Config.ViewportMaxHeightPx].
//
// All solvers work against a [Surface], a minimal measurement capability
// that can be backed by a headless tree (package vdom), a JavaScript engine
// (package fit/jsrun) or a test stub.
//
// # Dual mode
//
// Each solver is also available as a [Routine]. A routine can run now
// against a Surface, or emit a standalone script that performs the same
// steps with baseline DOM APIs once a static export loads:
//
//	r := fit.NewPlan(cfg, layout.ComputeTitleConfig(n, nil)).Routine()
//	report := r.Run(surface)
//	js := r.Script()
//
// The Go loop and the emitted loop take the same steps with the same
// arithmetic, so both converge to the same sizes and scale.
//
// # Failure semantics
//
// Solvers never return errors. A surface that is not ready is skipped,
// a text that cannot fit stays at its floor size and a content block that
// is too tall stays at the floor scale.
package fit
