package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/deckfit/pkg/errors"
)

// Format is a deck file encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported deck file %q (want .json, .toml, .yaml or .yml)", filepath.Base(path))
}

// Load reads and validates a deck file.
func Load(path string) (Deck, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Deck{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Deck{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "deck file %s", path)
		}
		return Deck{}, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a deck in the given format and validates it.
func Decode(r io.Reader, format Format) (Deck, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Deck{}, fmt.Errorf("read deck: %w", err)
	}

	var d Deck
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&d)
	case FormatTOML:
		_, err = toml.Decode(string(data), &d)
	case FormatYAML:
		err = yaml.Unmarshal(data, &d)
	default:
		return Deck{}, errs.New(errs.ErrCodeInvalidFormat, "unknown deck format %q", format)
	}
	if err != nil {
		return Deck{}, errs.Wrap(errs.ErrCodeInvalidContent, err, "decode %s deck", format)
	}
	if err := d.Validate(); err != nil {
		return Deck{}, err
	}
	return d, nil
}
