package ladderwatch

import (
	"context"
	"encoding/json"
	"time"
)

// GameMode distinguishes the hardcore and softcore ladders.
type GameMode string

// GameMode constants.
const (
	GameModeSoftcore GameMode = "softcore"
	GameModeHardcore GameMode = "hardcore"
)

// Character is the upstream detail for a single character.
// Info and Info.Status are required; a response without them is unusable.
type Character struct {
	Info  *CharacterInfo `json:"character"`
	Items []Item         `json:"items"`

	// Raw holds the response body the character was decoded from.
	Raw json.RawMessage `json:"-"`
}

// CharacterInfo holds the summary block of a character.
type CharacterInfo struct {
	Name   string           `json:"name"`
	Level  int              `json:"level"`
	Class  CharacterClass   `json:"class"`
	Status *CharacterStatus `json:"status"`
}

// CharacterClass names the class of a character.
type CharacterClass struct {
	Name string `json:"name"`
}

// CharacterStatus holds the mode flags of a character.
type CharacterStatus struct {
	IsLadder    bool `json:"is_ladder"`
	IsHardcore  bool `json:"is_hardcore"`
	IsExpansion bool `json:"is_expansion"`
	IsDead      bool `json:"is_dead"`
}

// Item is an equipped or carried item with its magic properties.
type Item struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Properties []string `json:"properties"`
}

// Validate returns an error if the character is missing required sub-objects.
func (c *Character) Validate() error {
	if c.Info == nil {
		return Errorf(EINVALID, "character block required")
	}
	if c.Info.Status == nil {
		return Errorf(EINVALID, "character status required")
	}
	if !ValidName(c.Info.Name) {
		return Errorf(EINVALID, "character name required")
	}
	return nil
}

// GameMode returns the ladder the character competes in.
// Callers must Validate the character first.
func (c *Character) GameMode() GameMode {
	if c.Info.Status.IsHardcore {
		return GameModeHardcore
	}
	return GameModeSoftcore
}

// SkillTotal is a derived per-skill bonus summed across all items.
type SkillTotal struct {
	Skill string `json:"skill"`
	Total int    `json:"total"`
}

// CharacterRecord is what the pipeline hands to the storage sink.
type CharacterRecord struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	SourceAccount string          `json:"sourceAccount"`
	GameMode      GameMode        `json:"gameMode"`
	Season        int             `json:"season"`
	Level         int             `json:"level"`
	Class         string          `json:"class"`
	SkillTotals   []SkillTotal    `json:"skillTotals"`
	Detail        json.RawMessage `json:"detail"`
	DetailHash    string          `json:"detailHash"`
	IngestedAt    time.Time       `json:"ingestedAt"`
	ChangedAt     time.Time       `json:"changedAt"`
}

// Changed reports whether the last ingest stored a new detail.
func (r *CharacterRecord) Changed() bool {
	return !r.ChangedAt.IsZero() && r.ChangedAt.Equal(r.IngestedAt)
}

// Validate returns an error if the record contains invalid fields.
func (r *CharacterRecord) Validate() error {
	if !ValidName(r.Name) {
		return Errorf(EINVALID, "record character name required")
	}
	if r.GameMode != GameModeSoftcore && r.GameMode != GameModeHardcore {
		return Errorf(EINVALID, "record game mode %q invalid", r.GameMode)
	}
	return nil
}

// CharacterSink receives qualifying character records.
// Ingesting the same character twice overwrites the earlier record.
type CharacterSink interface {
	Ingest(ctx context.Context, rec *CharacterRecord) error
}

// CharacterService represents a service for storing and reading character records.
type CharacterService interface {
	CharacterSink

	// FindCharacter retrieves a record by name, game mode and season.
	// Returns ENOTFOUND if no record exists.
	FindCharacter(ctx context.Context, name string, mode GameMode, season int) (*CharacterRecord, error)

	// FindCharacters retrieves records matching the filter, most recently
	// ingested first.
	FindCharacters(ctx context.Context, filter CharacterFilter) ([]*CharacterRecord, error)

	// CountCharacters returns the number of stored records.
	CountCharacters(ctx context.Context) (int, error)
}

// CharacterFilter represents a filter for FindCharacters.
type CharacterFilter struct {
	GameMode *GameMode
	Season   *int
	Class    *string

	// Restrict to a subset of results
	Offset int
	Limit  int
}

// StatEngine derives computed fields from a character.
type StatEngine interface {
	SkillTotals(c *Character) []SkillTotal
}

// ProfanityChecker decides whether a name is objectionable.
type ProfanityChecker interface {
	IsObjectionable(name string) bool
}
