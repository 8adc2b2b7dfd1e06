package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/ladderwatch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ladderwatch.CharacterService = (*CharacterService)(nil)

// CharacterService implements ladderwatch.CharacterService using SQLite.
// A character is identified by name, game mode and season; ingesting it again
// updates the stored record and keeps its ID. The detail and the fields derived
// from it are only rewritten when the detail hash differs.
type CharacterService struct {
	db *DB
}

// NewCharacterService creates a new CharacterService.
func NewCharacterService(db *DB) *CharacterService {
	return &CharacterService{db: db}
}

// hashDetail computes xxHash of the raw detail and returns a hex string.
func hashDetail(detail []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(detail))
}

// Ingest upserts a character record.
func (s *CharacterService) Ingest(ctx context.Context, rec *ladderwatch.CharacterRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	detail := rec.Detail
	if len(detail) == 0 {
		detail = json.RawMessage("{}")
	}
	totals := rec.SkillTotals
	if totals == nil {
		totals = []ladderwatch.SkillTotal{}
	}
	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("failed to encode skill totals: %w", err)
	}
	if rec.IngestedAt.IsZero() {
		rec.IngestedAt = time.Now()
	}
	rec.IngestedAt = rec.IngestedAt.UTC().Truncate(time.Second)
	rec.DetailHash = hashDetail(detail)

	ingestedAt := rec.IngestedAt.Format(time.RFC3339)

	var id, changedAt string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO characters (id, name, source_account, game_mode, season, level, class, skill_totals, detail, detail_hash, ingested_at, changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, game_mode, season) DO UPDATE SET
			source_account = excluded.source_account,
			ingested_at = excluded.ingested_at,
			level = iif(detail_hash = excluded.detail_hash, level, excluded.level),
			class = iif(detail_hash = excluded.detail_hash, class, excluded.class),
			skill_totals = iif(detail_hash = excluded.detail_hash, skill_totals, excluded.skill_totals),
			detail = iif(detail_hash = excluded.detail_hash, detail, excluded.detail),
			changed_at = iif(detail_hash = excluded.detail_hash, changed_at, excluded.changed_at),
			detail_hash = excluded.detail_hash
		RETURNING id, changed_at
	`, uuid.New().String(), rec.Name, rec.SourceAccount, string(rec.GameMode), rec.Season, rec.Level, rec.Class,
		string(totalsJSON), string(detail), rec.DetailHash, ingestedAt, ingestedAt).Scan(&id, &changedAt)
	if err != nil {
		return err
	}
	rec.ID = id
	if rec.ChangedAt, err = time.Parse(time.RFC3339, changedAt); err != nil {
		return fmt.Errorf("failed to parse changed_at: %w", err)
	}

	return nil
}

const characterColumns = "id, name, source_account, game_mode, season, level, class, skill_totals, detail, detail_hash, ingested_at, changed_at"

// FindCharacter retrieves a record by name, game mode and season.
func (s *CharacterService) FindCharacter(ctx context.Context, name string, mode ladderwatch.GameMode, season int) (*ladderwatch.CharacterRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE name = ? AND game_mode = ? AND season = ?",
		name, string(mode), season)

	rec, err := scanCharacter(row)
	if err == sql.ErrNoRows {
		return nil, ladderwatch.Errorf(ladderwatch.ENOTFOUND, "character %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindCharacters retrieves records matching the filter.
func (s *CharacterService) FindCharacters(ctx context.Context, filter ladderwatch.CharacterFilter) ([]*ladderwatch.CharacterRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + characterColumns + " FROM characters WHERE 1=1")

	if filter.GameMode != nil {
		query.WriteString(" AND game_mode = ?")
		args = append(args, string(*filter.GameMode))
	}
	if filter.Season != nil {
		query.WriteString(" AND season = ?")
		args = append(args, *filter.Season)
	}
	if filter.Class != nil {
		query.WriteString(" AND class = ?")
		args = append(args, *filter.Class)
	}

	query.WriteString(" ORDER BY ingested_at DESC, name ASC")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite requires a LIMIT before OFFSET.
		query.WriteString(" LIMIT -1")
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*ladderwatch.CharacterRecord
	for rows.Next() {
		rec, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}

// CountCharacters returns the number of stored records.
func (s *CharacterService) CountCharacters(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM characters").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (*ladderwatch.CharacterRecord, error) {
	var rec ladderwatch.CharacterRecord
	var mode, totals, detail, ingestedAt, changedAt string

	if err := row.Scan(&rec.ID, &rec.Name, &rec.SourceAccount, &mode, &rec.Season, &rec.Level, &rec.Class,
		&totals, &detail, &rec.DetailHash, &ingestedAt, &changedAt); err != nil {
		return nil, err
	}

	rec.GameMode = ladderwatch.GameMode(mode)
	rec.Detail = json.RawMessage(detail)
	if err := json.Unmarshal([]byte(totals), &rec.SkillTotals); err != nil {
		return nil, fmt.Errorf("failed to parse skill_totals: %w", err)
	}

	t, err := time.Parse(time.RFC3339, ingestedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ingested_at: %w", err)
	}
	rec.IngestedAt = t

	if rec.ChangedAt, err = time.Parse(time.RFC3339, changedAt); err != nil {
		return nil, fmt.Errorf("failed to parse changed_at: %w", err)
	}

	return &rec, nil
}
