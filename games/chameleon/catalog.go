/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package chameleon

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed boards.yaml
var defaultBoards []byte

// Board is one category of candidate words. The secret word of a round is
// one of its words.
type Board struct {
	Title string   `yaml:"name" json:"name"`
	Words []string `yaml:"words" json:"words"`
}

type Catalog []Board

// DefaultCatalog returns the built-in boards.
func DefaultCatalog() Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultBoards))
	if err != nil {
		panic("chameleon: embedded boards are invalid: " + err.Error())
	}
	return c
}

// LoadCatalog reads a YAML list of boards and validates it.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no boards", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadCatalogFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadCatalog(f)
}

func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no boards", ErrInvalidCatalog)
	}
	for i, b := range c {
		if strings.TrimSpace(b.Title) == "" {
			return fmt.Errorf("%w: board %d has no name", ErrInvalidCatalog, i)
		}
		if len(b.Words) < 2 {
			return fmt.Errorf("%w: board %q needs at least two words", ErrInvalidCatalog, b.Title)
		}
		seen := make(map[string]bool, len(b.Words))
		for _, w := range b.Words {
			key := strings.ToLower(strings.TrimSpace(w))
			if key == "" {
				return fmt.Errorf("%w: board %q has an empty word", ErrInvalidCatalog, b.Title)
			}
			if seen[key] {
				return fmt.Errorf("%w: board %q repeats %q", ErrInvalidCatalog, b.Title, w)
			}
			seen[key] = true
		}
	}
	return nil
}
