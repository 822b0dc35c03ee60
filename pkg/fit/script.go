package fit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// scriptHelpers is the shrink loop shared by every emitted phase. It is
// the same loop as shrink in solve.go, step for step.
const scriptHelpers = `  function shrink(el, start, floor, step, guard, over) {
    if (floor > start) floor = start;
    var size = start, steps = 0;
    el.style.fontSize = size + "px";
    while (over(el) && size > floor && steps < guard) {
      size = Math.max(floor, size - step);
      el.style.fontSize = size + "px";
      steps++;
    }
    return size;
  }
`

// scriptGate runs the phases exactly once: after DOMContentLoaded when the
// document is still loading, and after document.fonts.ready or the timeout,
// whichever comes first.
const scriptGate = `  var done = false;
  function run() {
    if (done) return;
    done = true;
    for (var i = 0; i < phases.length; i++) {
      try { phases[i](); } catch (e) {}
    }
  }
  function gate() {
    var fonts = document.fonts;
    if (fonts && fonts.ready && typeof fonts.ready.then === "function") {
      var timer = setTimeout(run, timeout);
      fonts.ready.then(function () { clearTimeout(timer); run(); }, function () { clearTimeout(timer); run(); });
    } else {
      run();
    }
  }
  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", gate);
  } else {
    gate();
  }
`

func script(cfg Config, phases []string) string {
	var buf bytes.Buffer
	buf.WriteString("(function () {\n")
	buf.WriteString("  if (typeof window === \"undefined\" || typeof document === \"undefined\") return;\n")
	buf.WriteString(scriptHelpers)
	fmt.Fprintf(&buf, "  var timeout = %d;\n", cfg.FontTimeout.Milliseconds())
	buf.WriteString("  var phases = [\n")
	for i, p := range phases {
		buf.WriteString(p)
		if i < len(phases)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("  ];\n")
	buf.WriteString(scriptGate)
	buf.WriteString("})();\n")
	return buf.String()
}

func (t TitleFit) phases() []string {
	cfg := t.Config.normalized()
	tc := titleRange(t.Title)
	var buf bytes.Buffer
	buf.WriteString("    function () {\n")
	fmt.Fprintf(&buf, "      var el = document.querySelector(%s);\n", jsString(cfg.TitleSelector))
	buf.WriteString("      if (!el) return;\n")
	fmt.Fprintf(&buf, "      shrink(el, %s, %s, %s, %d, function (e) { return e.getBoundingClientRect().width > %s; });\n",
		jsNumber(tc.InitialFontSize), jsNumber(tc.MinFontSize), jsNumber(cfg.DecrementStepPx),
		cfg.MaxIterations, jsNumber(cfg.MaxTitleWidthPx))
	buf.WriteString("    }")
	return []string{buf.String()}
}

func (c CardTitleFit) phases() []string {
	cfg := c.Config.normalized()
	var buf bytes.Buffer
	buf.WriteString("    function () {\n")
	fmt.Fprintf(&buf, "      var els = document.querySelectorAll(%s);\n", jsString(c.Selector))
	buf.WriteString("      for (var i = 0; i < els.length; i++) {\n")
	buf.WriteString("        var el = els[i];\n")
	buf.WriteString("        el.style.fontSize = \"\";\n")
	buf.WriteString("        var base = parseFloat(window.getComputedStyle(el).fontSize);\n")
	buf.WriteString("        if (!(base > 0 && isFinite(base))) continue;\n")
	buf.WriteString("        if (!(el.scrollWidth > el.clientWidth)) continue;\n")
	fmt.Fprintf(&buf, "        var floor = Math.min(base, Math.max(%s, Math.floor(base * %s)));\n",
		jsNumber(c.MinPx), jsNumber(cfg.CardTitleShrinkRatio))
	fmt.Fprintf(&buf, "        shrink(el, base, floor, %s, %d, function (e) { return e.scrollWidth > e.clientWidth; });\n",
		jsNumber(cfg.DecrementStepPx), cfg.MaxIterations)
	buf.WriteString("      }\n")
	buf.WriteString("    }")
	return []string{buf.String()}
}

func (v ViewportFit) phases() []string {
	cfg := v.Config.normalized()
	var buf bytes.Buffer
	buf.WriteString("    function () {\n")
	fmt.Fprintf(&buf, "      var el = document.querySelector(%s);\n", jsString(cfg.ContentSelector))
	buf.WriteString("      if (!el) return;\n")
	buf.WriteString("      el.style.transform = \"\";\n")
	buf.WriteString("      el.style.transformOrigin = \"\";\n")
	buf.WriteString("      var h = el.getBoundingClientRect().height;\n")
	fmt.Fprintf(&buf, "      if (!(h > %s)) return;\n", jsNumber(cfg.ViewportMaxHeightPx))
	fmt.Fprintf(&buf, "      var s = Math.max(%s, %s / h);\n", jsNumber(cfg.ViewportFloorScale), jsNumber(cfg.ViewportMaxHeightPx))
	buf.WriteString("      el.style.transform = \"scale(\" + s + \")\";\n")
	fmt.Fprintf(&buf, "      el.style.transformOrigin = %s;\n", jsString(cfg.TransformOrigin))
	buf.WriteString("    }")
	return []string{buf.String()}
}

// jsNumber formats v as the shortest JavaScript literal that parses back
// to the same float64.
func jsNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// jsString quotes s as a JavaScript string literal. JSON string syntax is a
// subset of it; the HTML-sensitive characters are escaped by json.Marshal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
