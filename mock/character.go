package mock

import (
	"context"

	"github.com/fwojciec/ladderwatch"
)

var _ ladderwatch.CharacterService = (*CharacterService)(nil)

// CharacterService is a mock implementation of ladderwatch.CharacterService.
type CharacterService struct {
	IngestFn          func(ctx context.Context, rec *ladderwatch.CharacterRecord) error
	FindCharacterFn   func(ctx context.Context, name string, mode ladderwatch.GameMode, season int) (*ladderwatch.CharacterRecord, error)
	FindCharactersFn  func(ctx context.Context, filter ladderwatch.CharacterFilter) ([]*ladderwatch.CharacterRecord, error)
	CountCharactersFn func(ctx context.Context) (int, error)
}

func (s *CharacterService) Ingest(ctx context.Context, rec *ladderwatch.CharacterRecord) error {
	return s.IngestFn(ctx, rec)
}

func (s *CharacterService) FindCharacter(ctx context.Context, name string, mode ladderwatch.GameMode, season int) (*ladderwatch.CharacterRecord, error) {
	return s.FindCharacterFn(ctx, name, mode, season)
}

func (s *CharacterService) FindCharacters(ctx context.Context, filter ladderwatch.CharacterFilter) ([]*ladderwatch.CharacterRecord, error) {
	return s.FindCharactersFn(ctx, filter)
}

func (s *CharacterService) CountCharacters(ctx context.Context) (int, error) {
	return s.CountCharactersFn(ctx)
}

var _ ladderwatch.StatEngine = (*StatEngine)(nil)

// StatEngine is a mock implementation of ladderwatch.StatEngine.
type StatEngine struct {
	SkillTotalsFn func(c *ladderwatch.Character) []ladderwatch.SkillTotal
}

func (e *StatEngine) SkillTotals(c *ladderwatch.Character) []ladderwatch.SkillTotal {
	return e.SkillTotalsFn(c)
}

var _ ladderwatch.ProfanityChecker = (*ProfanityChecker)(nil)

// ProfanityChecker is a mock implementation of ladderwatch.ProfanityChecker.
type ProfanityChecker struct {
	IsObjectionableFn func(name string) bool
}

func (p *ProfanityChecker) IsObjectionable(name string) bool {
	return p.IsObjectionableFn(name)
}
