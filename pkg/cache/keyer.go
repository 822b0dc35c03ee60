package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys for each stage of the fit pipeline.
type Keyer interface {
	// LayoutKey addresses the layout descriptor and title config for a
	// card count under a skin.
	LayoutKey(skin string, n int) string

	// FrameKey addresses the fitted frame of a deck.
	FrameKey(deckHash string, opts FrameKeyOpts) string

	// ArtifactKey addresses one rendered output of a frame.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts holds the inputs besides the deck that change a fitted frame.
type FrameKeyOpts struct {
	Skin     string `json:"skin"`
	SkinHash string `json:"skin_hash,omitempty"`
	Measurer string `json:"measurer,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Boxes     bool   `json:"boxes,omitempty"`
	Outlines  bool   `json:"outlines,omitempty"`
	EmbedFont bool   `json:"embed_font,omitempty"`
	Thumbnail int    `json:"thumbnail,omitempty"`
}

// DefaultKeyer is the Keyer used when none is configured.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(skin string, n int) string {
	if n < 0 {
		n = 0
	}
	return hashKey("layout", skin, n)
}

// FrameKey returns "frame:<hash>".
func (DefaultKeyer) FrameKey(deckHash string, opts FrameKeyOpts) string {
	return hashKey("frame", deckHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

// hashKey returns prefix + ":" + the SHA-256 of the JSON encoding of parts.
// Parts are plain strings, ints and the option structs above, all of which
// encode without error.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
