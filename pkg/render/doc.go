// Package render turns a fitted slide into output artifacts.
//
// # Overview
//
// A [Frame] is everything known about one slide after fitting: the deck,
// the layout descriptor, the title range, the solver report and the laid-out
// boxes. Sinks transform a Frame into a final format:
//
//   - JSON: descriptor, report and boxes for external tools ([RenderJSON])
//   - JS: the standalone fitting script for static exports ([RenderScript])
//   - SVG: a wireframe preview with the Go fonts embedded ([RenderSVG])
//   - PNG: a raster preview drawn with fogleman/gg ([RenderPNG])
//
// # Options
//
// Sinks take functional options:
//
//	svg := render.RenderSVG(frame, render.WithEmbeddedFont(), render.WithOutlines())
//	png, err := render.RenderPNG(frame, render.WithPNGScale(0.5))
//	thumb, err := render.RenderPNG(frame, render.WithThumbnail(480))
//
// Previews draw boxes in canvas coordinates with the viewport transform
// already applied, so a scaled slide looks scaled.
package render
