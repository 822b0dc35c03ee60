package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/deckfit/pkg/fit"
)

// ScriptOption configures [RenderScript].
type ScriptOption func(*scriptRenderer)

type scriptRenderer struct {
	header []string
}

// WithScriptHeader prepends a comment line, such as the skin and card
// count the script was generated for.
func WithScriptHeader(format string, args ...any) ScriptOption {
	return func(r *scriptRenderer) { r.header = append(r.header, fmt.Sprintf(format, args...)) }
}

// RenderScript emits the standalone script of a routine.
func RenderScript(routine fit.Routine, opts ...ScriptOption) []byte {
	r := scriptRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	var buf bytes.Buffer
	for _, line := range r.header {
		fmt.Fprintf(&buf, "// %s\n", strings.ReplaceAll(line, "\n", " "))
	}
	buf.WriteString(routine.Script())
	return buf.Bytes()
}
