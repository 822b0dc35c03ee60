// Package fonts provides the font files used by the preview sinks.
//
// The fonts come from the Go font family (golang.org/x/image/font/gofont),
// which is compiled into the binary, so previews render identically on every
// machine and match the headless measurer in package measure.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// RegularTTF returns the Go Regular TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

// BoldTTF returns the Go Bold TrueType data.
func BoldTTF() []byte {
	return gobold.TTF
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	regularBase64     string
	regularBase64Once sync.Once
	boldBase64        string
	boldBase64Once    sync.Once
)

// RegularBase64 returns Go Regular as a base64 string for data: URLs.
func RegularBase64() string {
	regularBase64Once.Do(func() {
		regularBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return regularBase64
}

// BoldBase64 returns Go Bold as a base64 string for data: URLs.
func BoldBase64() string {
	boldBase64Once.Do(func() {
		boldBase64 = base64.StdEncoding.EncodeToString(gobold.TTF)
	})
	return boldBase64
}

// FontFamily is the CSS font-family name the embedded faces are declared under.
const FontFamily = "Deckfit Go"

// FallbackFontFamily lists fallbacks for viewers that ignore @font-face.
const FallbackFontFamily = `'Deckfit Go', 'Go', 'Helvetica Neue', Arial, sans-serif`
