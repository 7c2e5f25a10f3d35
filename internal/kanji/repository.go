package kanji

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// StoredProfile is a profile row of the kanji_profiles table.
type StoredProfile struct {
	Kanji           string          `db:"kanji"`
	SourceReference string          `db:"source_reference"`
	StrokeCount     uint            `db:"stroke_count"`
	JLPTLevel       sql.NullString  `db:"jlpt_level"`
	Profile         json.RawMessage `db:"profile"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// Decode unmarshals the stored JSON column.
func (s StoredProfile) Decode() (Profile, error) {
	var profile Profile
	if err := json.Unmarshal(s.Profile, &profile); err != nil {
		return Profile{}, fmt.Errorf("json.Unmarshal(%s) > %w", s.Kanji, err)
	}
	return profile, nil
}

// ProfileRepository defines operations for persisting extracted profiles.
type ProfileRepository interface {
	FindAll(ctx context.Context) ([]StoredProfile, error)
	FindByCharacter(ctx context.Context, character string) (*StoredProfile, error)
	Upsert(ctx context.Context, character string, profile Profile) error
}

// DBProfileRepository implements ProfileRepository using MySQL.
type DBProfileRepository struct {
	db *sqlx.DB
}

// NewDBProfileRepository creates a new DBProfileRepository.
func NewDBProfileRepository(db *sqlx.DB) *DBProfileRepository {
	return &DBProfileRepository{db: db}
}

// FindAll returns all stored profiles.
func (r *DBProfileRepository) FindAll(ctx context.Context) ([]StoredProfile, error) {
	var profiles []StoredProfile
	if err := r.db.SelectContext(ctx, &profiles, "SELECT * FROM kanji_profiles ORDER BY kanji"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(kanji_profiles) > %w", err)
	}
	return profiles, nil
}

// FindByCharacter returns the profile of a character, or nil if not found.
func (r *DBProfileRepository) FindByCharacter(ctx context.Context, character string) (*StoredProfile, error) {
	var profile StoredProfile
	err := r.db.GetContext(ctx, &profile, "SELECT * FROM kanji_profiles WHERE kanji = ?", character)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(kanji_profile) > %w", err)
	}
	return &profile, nil
}

// Upsert inserts or updates the profile of a character.
func (r *DBProfileRepository) Upsert(ctx context.Context, character string, profile Profile) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("json.Marshal(%s) > %w", character, err)
	}

	var jlptLevel sql.NullString
	if profile.JLPTLevel != nil {
		jlptLevel = sql.NullString{String: string(*profile.JLPTLevel), Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO kanji_profiles (kanji, source_reference, stroke_count, jlpt_level, profile)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE source_reference = VALUES(source_reference), stroke_count = VALUES(stroke_count), jlpt_level = VALUES(jlpt_level), profile = VALUES(profile)`,
		character, profile.SourceReference, profile.StrokeCount, jlptLevel, body)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert kanji_profile) > %w", err)
	}
	return nil
}
