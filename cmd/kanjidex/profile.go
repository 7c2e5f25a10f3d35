package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/kanjidex/internal/config"
	"github.com/at-ishikawa/kanjidex/internal/kanji"
	"github.com/at-ishikawa/kanjidex/internal/lookup"
)

func newProfileCommand() *cobra.Command {
	var (
		format       Format
		fromSnapshot bool
		fromDB       bool
		saveDB       bool
		saveYAMLDir  string
	)

	cmd := &cobra.Command{
		Use:   "profile <character>",
		Short: "Show the profile of a kanji",
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
			var profile kanji.Profile
			if fromDB {
				profile, err = storedProfile(ctx, cfg, character)
				if err != nil {
					return err
				}
			} else {
				profile, err = newService(cfg, fromSnapshot).Profile(ctx, character)
				if err != nil {
					return fmt.Errorf("service.Profile > %w", err)
				}
			}

			if saveDB {
				db, err := openDB(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close() }()
				if err := kanji.NewDBProfileRepository(db).Upsert(ctx, character, profile); err != nil {
					return fmt.Errorf("repository.Upsert > %w", err)
				}
				slog.Default().Info("saved the profile to the database", "kanji", character)
			}
			if saveYAMLDir != "" {
				path, err := kanji.NewYAMLProfileWriter(saveYAMLDir).Write(character, profile)
				if err != nil {
					return fmt.Errorf("yamlWriter.Write > %w", err)
				}
				slog.Default().Info("saved the profile", "kanji", character, "path", path)
			}

			if outputFormat == FormatText {
				printProfile(cmd.OutOrStdout(), character, profile)
				return nil
			}
			return writeStructured(cmd.OutOrStdout(), outputFormat, kanji.ProfileDocument{
				Kanji:   character,
				Profile: profile,
			})
		},
	}

	addFormatFlag(cmd, &format)
	flags := cmd.Flags()
	flags.BoolVar(&fromSnapshot, "from-snapshot", false, "Read the page saved by the fetch command instead of downloading it")
	flags.BoolVar(&fromDB, "from-db", false, "Read the profile saved by --save-db instead of extracting it")
	flags.BoolVar(&saveDB, "save-db", false, "Save the profile to the database")
	flags.StringVar(&saveYAMLDir, "save-yaml", "", "Directory to write the profile as a YAML file")
	cmd.MarkFlagsMutuallyExclusive("from-db", "from-snapshot")
	cmd.MarkFlagsMutuallyExclusive("from-db", "save-db")
	return cmd
}

// errProfileNotStored is returned by --from-db for a character that was never saved.
var errProfileNotStored = errors.New("profile is not stored in the database")

func storedProfile(ctx context.Context, cfg *config.Config, character string) (kanji.Profile, error) {
	db, err := openDB(cfg)
	if err != nil {
		return kanji.Profile{}, err
	}
	defer func() { _ = db.Close() }()

	var repo kanji.ProfileRepository = kanji.NewDBProfileRepository(db)
	stored, err := repo.FindByCharacter(ctx, character)
	if err != nil {
		return kanji.Profile{}, fmt.Errorf("repository.FindByCharacter > %w", err)
	}
	if stored == nil {
		return kanji.Profile{}, fmt.Errorf("%s: %w", character, errProfileNotStored)
	}
	return stored.Decode()
}

func printProfile(w io.Writer, character string, profile kanji.Profile) {
	bold := color.New(color.Bold)
	heading := color.New(color.FgCyan, color.Bold)

	_, _ = bold.Fprintln(w, character)
	printField(w, "Grade", optional(profile.TaughtGrade))
	var jlpt string
	if profile.JLPTLevel != nil {
		jlpt = string(*profile.JLPTLevel)
	}
	printField(w, "JLPT", optional(&jlpt))
	printField(w, "Strokes", fmt.Sprint(profile.StrokeCount))
	printField(w, "Meaning", profile.CoreMeaning)
	printField(w, "Kun", strings.Join(profile.KunReadings, ", "))
	printField(w, "On", strings.Join(profile.OnReadings, ", "))
	printField(w, "Parts", strings.Join(profile.Components, " "))

	for _, group := range []struct {
		title    string
		examples []kanji.ReadingExample
	}{
		{title: "On reading compounds", examples: profile.OnExamples},
		{title: "Kun reading compounds", examples: profile.KunExamples},
	} {
		if len(group.examples) == 0 {
			continue
		}
		_, _ = fmt.Fprintln(w)
		_, _ = heading.Fprintln(w, group.title)
		for _, example := range group.examples {
			_, _ = fmt.Fprintf(w, "  %s 【%s】 %s\n", example.BaseText, example.Reading, example.Gloss)
		}
	}
}

func printField(w io.Writer, name string, value string) {
	_, _ = fmt.Fprintf(w, "  %-8s %s\n", name+":", value)
}

func optional(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
