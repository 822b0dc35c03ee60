// Package content defines the slide input: a main title and an ordered list
// of cards.
//
// The card count N is the only value the layout depends on; titles and
// descriptions matter only to the fitting solvers. Decks can be read from
// JSON, TOML or YAML:
//
//	deck, err := content.Load("quarterly.yaml")
//	if err != nil {
//	    return err
//	}
//	d := layout.Compute(deck.N())
package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	errs "github.com/matzehuels/deckfit/pkg/errors"
)

// Card is one icon, title and description. Desc may contain <strong> and
// <code> inline tags that were sanitized upstream.
type Card struct {
	Icon  string `json:"icon" toml:"icon" yaml:"icon"`
	Title string `json:"title" toml:"title" yaml:"title"`
	Desc  string `json:"desc" toml:"desc" yaml:"desc"`
}

// Deck is the content of one slide. Card order is render order, row-major.
type Deck struct {
	MainTitle string `json:"mainTitle" toml:"main_title" yaml:"mainTitle"`
	Cards     []Card `json:"cards" toml:"cards" yaml:"cards"`
}

// N returns the number of cards.
func (d Deck) N() int { return len(d.Cards) }

// Validate rejects a blank main title or a card without a title.
// A deck without cards is valid.
func (d Deck) Validate() error {
	if strings.TrimSpace(d.MainTitle) == "" {
		return errs.New(errs.ErrCodeInvalidContent, "main title is required")
	}
	for i, c := range d.Cards {
		if strings.TrimSpace(c.Title) == "" {
			return errs.New(errs.ErrCodeInvalidContent, "card %d has no title", i+1)
		}
	}
	return nil
}

// Hash returns the hex SHA-256 of the deck's JSON encoding.
func (d Deck) Hash() string {
	data, _ := json.Marshal(d)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
