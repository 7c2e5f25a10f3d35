package sentence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/kanjidex/internal/furigana"
)

// StoredSentence is a row of the example_sentences table.
type StoredSentence struct {
	ID        int64           `db:"id"`
	Kanji     string          `db:"kanji"`
	Position  int             `db:"position"`
	Gloss     string          `db:"gloss"`
	KanjiForm string          `db:"kanji_form"`
	KanaForm  string          `db:"kana_form"`
	Segments  json.RawMessage `db:"segments"`
	CreatedAt time.Time       `db:"created_at"`
}

// Decode restores the annotated sentence. The mismatch counts are not stored.
func (s StoredSentence) Decode() (furigana.AnnotatedSentence, error) {
	var segments []furigana.Segment
	if err := json.Unmarshal(s.Segments, &segments); err != nil {
		return furigana.AnnotatedSentence{}, fmt.Errorf("json.Unmarshal(%s, %d) > %w", s.Kanji, s.Position, err)
	}
	return furigana.AnnotatedSentence{
		Gloss:     s.Gloss,
		KanjiForm: s.KanjiForm,
		KanaForm:  s.KanaForm,
		Segments:  segments,
	}, nil
}

// Repository defines operations for persisting the example sentences of a character.
type Repository interface {
	FindByCharacter(ctx context.Context, character string) ([]StoredSentence, error)
	Replace(ctx context.Context, character string, sentences []furigana.AnnotatedSentence) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByCharacter returns the sentences of a character in page order.
func (r *DBRepository) FindByCharacter(ctx context.Context, character string) ([]StoredSentence, error) {
	var sentences []StoredSentence
	if err := r.db.SelectContext(ctx, &sentences,
		"SELECT * FROM example_sentences WHERE kanji = ? ORDER BY `position`", character); err != nil {
		return nil, fmt.Errorf("db.SelectContext(example_sentences) > %w", err)
	}
	return sentences, nil
}

// Replace deletes the stored sentences of a character and inserts the given ones in a transaction.
func (r *DBRepository) Replace(ctx context.Context, character string, sentences []furigana.AnnotatedSentence) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM example_sentences WHERE kanji = ?", character); err != nil {
		return fmt.Errorf("tx.ExecContext(delete example_sentences) > %w", err)
	}

	for i, sentence := range sentences {
		segments, err := json.Marshal(sentence.Segments)
		if err != nil {
			return fmt.Errorf("json.Marshal(segments) > %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO example_sentences (kanji, `position`, gloss, kanji_form, kana_form, segments) VALUES (?, ?, ?, ?, ?, ?)",
			character, i, sentence.Gloss, sentence.KanjiForm, sentence.KanaForm, segments)
		if err != nil {
			return fmt.Errorf("tx.ExecContext(insert example_sentence) > %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w", err)
	}
	return nil
}
