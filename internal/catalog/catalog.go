// Package catalog holds the immutable character list loaded at startup.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"character-chat-demo/backend/internal/models"
)

const (
	// ImagePrefix is where per-character image objects live in storage
	ImagePrefix = "character_images/"
	// imageExtension is the fixed extension for character images
	imageExtension = ".png"
)

// Catalog is a read-only list of characters. Safe for unsynchronized
// concurrent reads; never mutated after Load.
type Catalog struct {
	characters []models.Character
}

// Load reads the character definitions from a JSON file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading character file %s: %w", path, err)
	}

	var characters []models.Character
	if err := json.Unmarshal(data, &characters); err != nil {
		return nil, fmt.Errorf("parsing character file %s: %w", path, err)
	}
	if len(characters) == 0 {
		return nil, fmt.Errorf("character file %s contains no characters", path)
	}

	return &Catalog{characters: characters}, nil
}

// New builds a catalog from an in-memory character list
func New(characters []models.Character) *Catalog {
	return &Catalog{characters: characters}
}

// Characters returns the full character list in catalog order
func (c *Catalog) Characters() []models.Character {
	return c.characters
}

// First returns the first catalog entry
func (c *Catalog) First() models.Character {
	return c.characters[0]
}

// FirstName returns the first catalog entry's name, or "" for an empty catalog
func (c *Catalog) FirstName() string {
	if c == nil || len(c.characters) == 0 {
		return ""
	}
	return c.characters[0].Name
}

// Resolve matches name against the catalog by exact name. An unknown name
// falls back to the first entry rather than erroring.
func (c *Catalog) Resolve(name string) models.Character {
	for _, ch := range c.characters {
		if ch.Name == name {
			return ch
		}
	}
	return c.characters[0]
}

// ImageKey derives the storage key for a character's image from its name:
// lower-cased, spaces replaced with underscores, fixed extension.
func ImageKey(name string) string {
	normalized := strings.ReplaceAll(strings.ToLower(name), " ", "_")
	return ImagePrefix + normalized + imageExtension
}
