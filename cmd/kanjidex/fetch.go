package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/kanjidex/internal/fetch"
	"github.com/at-ishikawa/kanjidex/internal/lookup"
	"github.com/at-ishikawa/kanjidex/internal/snapshot"
)

const maxConcurrentFetches = 2

func newFetchCommand() *cobra.Command {
	var skipExisting bool

	cmd := &cobra.Command{
		Use:   "fetch <character>...",
		Short: "Download the kanji and sentence pages and save them as snapshots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			characters := make([]string, 0, len(args))
			for _, arg := range args {
				character, err := lookup.NormalizeQuery(arg)
				if err != nil {
					return err
				}
				characters = append(characters, character)
			}

			service := newService(cfg, false)
			store := snapshot.NewStore(cfg.Snapshots.Directory)
			results := make([][]string, len(characters))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentFetches)
			for i, character := range characters {
				if skipExisting && store.Exists(fetch.PageKindKanji, character) && store.Exists(fetch.PageKindSentences, character) {
					slog.Default().Info("skipped the saved pages", "kanji", character)
					continue
				}
				g.Go(func() error {
					paths, err := service.Snapshot(ctx, character)
					if err != nil {
						return fmt.Errorf("service.Snapshot(%s) > %w", character, err)
					}
					results[i] = paths
					slog.Default().Debug("fetched pages", "kanji", character)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, paths := range results {
				for _, path := range paths {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Do not download characters whose pages are already saved")
	return cmd
}
