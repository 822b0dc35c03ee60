package pipeline

import (
	"io"
	"os"

	"github.com/matzehuels/deckfit/pkg/content"
)

// Stdin is the path that reads a deck from standard input.
const Stdin = "-"

// ReadDeck loads a deck from path, or from stdin when path is "-". The format
// comes from the file extension; stdin is read as JSON unless format is set.
func ReadDeck(path string, format content.Format, stdin io.Reader) (content.Deck, error) {
	if path != Stdin {
		if format == "" {
			return content.Load(path)
		}
		f, err := os.Open(path)
		if err != nil {
			return content.Deck{}, err
		}
		defer f.Close()
		return content.Decode(f, format)
	}
	if format == "" {
		format = content.FormatJSON
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	return content.Decode(stdin, format)
}
