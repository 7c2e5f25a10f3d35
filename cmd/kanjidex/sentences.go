package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kanjidex/internal/config"
	"github.com/at-ishikawa/kanjidex/internal/furigana"
	"github.com/at-ishikawa/kanjidex/internal/lookup"
	"github.com/at-ishikawa/kanjidex/internal/sentence"
)

type sentencesDocument struct {
	Kanji     string                       `json:"kanji" yaml:"kanji"`
	Sentences []furigana.AnnotatedSentence `json:"sentences" yaml:"sentences"`
}

func newSentencesCommand() *cobra.Command {
	var (
		format       Format
		fromSnapshot bool
		fromDB       bool
		saveDB       bool
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "sentences <character>",
		Short: "Show the example sentences of a kanji with their readings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			outputFormat, err := resolveFormat(cmd, format, cfg.Output.Format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			character, err := lookup.NormalizeQuery(args[0])
			if err != nil {
				return err
			}

			var sentences []furigana.AnnotatedSentence
			if fromDB {
				sentences, err = storedSentences(ctx, cfg, character, limit)
			} else {
				sentences, err = extractSentences(ctx, cfg, fromSnapshot, character, limit)
			}
			if err != nil {
				return err
			}

			if saveDB {
				db, err := openDB(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()
				if err := sentence.NewDBRepository(db).Replace(ctx, character, sentences); err != nil {
					return fmt.Errorf("repository.Replace > %w", err)
				}
				slog.Default().Info("saved the sentences to the database", "kanji", character, "count", len(sentences))
			}

			if outputFormat == FormatText {
				printSentences(cmd.OutOrStdout(), sentences)
				return nil
			}
			return writeStructured(cmd.OutOrStdout(), outputFormat, sentencesDocument{
				Kanji:     character,
				Sentences: sentences,
			})
		},
	}

	addFormatFlag(cmd, &format)
	flags := cmd.Flags()
	flags.BoolVar(&fromSnapshot, "from-snapshot", false, "Read the page saved by the fetch command instead of downloading it")
	flags.BoolVar(&fromDB, "from-db", false, "Read the sentences saved by --save-db instead of extracting them")
	flags.BoolVar(&saveDB, "save-db", false, "Replace the sentences of the kanji in the database")
	flags.IntVar(&limit, "limit", 0, "Maximum number of sentences. 0 shows all of them")
	cmd.MarkFlagsMutuallyExclusive("from-db", "from-snapshot")
	cmd.MarkFlagsMutuallyExclusive("from-db", "save-db")
	return cmd
}

// extractSentences aligns at most limit sentences. The sequence is not pulled past the last one kept.
func extractSentences(ctx context.Context, cfg *config.Config, fromSnapshot bool, character string, limit int) ([]furigana.AnnotatedSentence, error) {
	seq, err := newService(cfg, fromSnapshot).Sentences(ctx, character)
	if err != nil {
		return nil, fmt.Errorf("service.Sentences > %w", err)
	}

	sentences := make([]furigana.AnnotatedSentence, 0)
	for s := range seq {
		sentences = append(sentences, s)
		if limit > 0 && len(sentences) == limit {
			break
		}
	}
	return sentences, nil
}

func storedSentences(ctx context.Context, cfg *config.Config, character string, limit int) ([]furigana.AnnotatedSentence, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var repo sentence.Repository = sentence.NewDBRepository(db)
	stored, err := repo.FindByCharacter(ctx, character)
	if err != nil {
		return nil, fmt.Errorf("repository.FindByCharacter > %w", err)
	}
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}

	sentences := make([]furigana.AnnotatedSentence, 0, len(stored))
	for _, row := range stored {
		s, err := row.Decode()
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}

func printSentences(w io.Writer, sentences []furigana.AnnotatedSentence) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	warning := color.New(color.FgYellow)

	if len(sentences) == 0 {
		_, _ = fmt.Fprintln(w, "No example sentences")
		return
	}
	for i, s := range sentences {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = bold.Fprintf(w, "%d. %s\n", i+1, s.KanjiForm)
		_, _ = fmt.Fprintf(w, "   %s\n", s.KanaForm)
		if s.Gloss != "" {
			_, _ = faint.Fprintf(w, "   %s\n", s.Gloss)
		}
		if s.Degraded() {
			_, _ = warning.Fprintf(w, "   readings did not align: %d bases, %d readings\n", s.Mismatch.Bases, s.Mismatch.Readings)
		}
	}
}
