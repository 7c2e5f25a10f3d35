package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kanjidex/internal/kanji"
)

func newListCommand() *cobra.Command {
	var format Format

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the profiles saved in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			outputFormat, err := resolveFormat(cmd, format, cfg.Output.Format)
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			var repo kanji.ProfileRepository = kanji.NewDBProfileRepository(db)
			stored, err := repo.FindAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("repository.FindAll > %w", err)
			}
			documents := make([]kanji.ProfileDocument, 0, len(stored))
			for _, row := range stored {
				profile, err := row.Decode()
				if err != nil {
					return err
				}
				documents = append(documents, kanji.ProfileDocument{Kanji: row.Kanji, Profile: profile})
			}

			if outputFormat == FormatText {
				printProfileList(cmd.OutOrStdout(), documents)
				return nil
			}
			return writeStructured(cmd.OutOrStdout(), outputFormat, documents)
		},
	}

	addFormatFlag(cmd, &format)
	return cmd
}

func printProfileList(w io.Writer, documents []kanji.ProfileDocument) {
	bold := color.New(color.Bold)

	if len(documents) == 0 {
		_, _ = fmt.Fprintln(w, "No saved profiles")
		return
	}
	for _, document := range documents {
		var jlpt string
		if document.Profile.JLPTLevel != nil {
			jlpt = string(*document.Profile.JLPTLevel)
		}
		_, _ = bold.Fprint(w, document.Kanji)
		_, _ = fmt.Fprintf(w, "  %2d  %-2s  %s\n", document.Profile.StrokeCount, optional(&jlpt), document.Profile.CoreMeaning)
	}
}
