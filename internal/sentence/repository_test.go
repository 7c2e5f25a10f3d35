package sentence

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/kanjidex/internal/furigana"
)

func TestDBRepository_FindByCharacter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "kanji", "position", "gloss", "kanji_form", "kana_form", "segments", "created_at",
	}).
		AddRow(1, "日", 0, "Every day.", "毎日です", "まいにちです",
			json.RawMessage(`[{"base_text":"毎日","reading":"まいにち"},{"base_text":"です"}]`), now)

	mock.ExpectQuery("SELECT \\* FROM example_sentences WHERE kanji = \\? ORDER BY `position`").
		WithArgs("日").
		WillReturnRows(rows)

	got, err := repo.FindByCharacter(context.Background(), "日")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "毎日です", got[0].KanjiForm)

	sentence, err := got[0].Decode()
	require.NoError(t, err)
	assert.Equal(t, furigana.AnnotatedSentence{
		Gloss:     "Every day.",
		KanjiForm: "毎日です",
		KanaForm:  "まいにちです",
		Segments: []furigana.Segment{
			{BaseText: "毎日", Reading: "まいにち"},
			{BaseText: "です"},
		},
	}, sentence)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_Replace(t *testing.T) {
	sentences := []furigana.AnnotatedSentence{
		{
			Gloss:     "Every day.",
			KanjiForm: "毎日です",
			KanaForm:  "まいにちです",
			Segments: []furigana.Segment{
				{BaseText: "毎日", Reading: "まいにち"},
				{BaseText: "です"},
			},
		},
		{
			KanjiForm: "日",
			KanaForm:  "ひ",
			Segments:  []furigana.Segment{{BaseText: "日", Reading: "ひ"}},
		},
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "replaces all sentences",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM example_sentences WHERE kanji = \\?").
					WithArgs("日").
					WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectExec("INSERT INTO example_sentences").
					WithArgs("日", 0, "Every day.", "毎日です", "まいにちです",
						[]byte(`[{"base_text":"毎日","reading":"まいにち"},{"base_text":"です"}]`)).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec("INSERT INTO example_sentences").
					WithArgs("日", 1, "", "日", "ひ", []byte(`[{"base_text":"日","reading":"ひ"}]`)).
					WillReturnResult(sqlmock.NewResult(2, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on insert failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM example_sentences WHERE kanji = \\?").
					WithArgs("日").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO example_sentences").
					WillReturnError(errors.New("duplicate entry"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name: "begin failure",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("begin failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			err = repo.Replace(context.Background(), "日", sentences)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
