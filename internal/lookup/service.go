// Package lookup ties page retrieval to the kanji and sentence extractors.
package lookup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/at-ishikawa/kanjidex/internal/document"
	"github.com/at-ishikawa/kanjidex/internal/fetch"
	"github.com/at-ishikawa/kanjidex/internal/furigana"
	"github.com/at-ishikawa/kanjidex/internal/kanji"
	"github.com/at-ishikawa/kanjidex/internal/sentence"
)

// ErrUnsupportedQuery is returned for queries without any Han, hiragana or katakana character.
var ErrUnsupportedQuery = errors.New("query must contain a kanji or kana character")

// Snapshotter saves fetched pages.
type Snapshotter interface {
	Save(kind fetch.PageKind, query string, contents []byte) (string, error)
}

type Service struct {
	pages             fetch.Fetcher
	snapshots         Snapshotter
	kanjiExtractor    *kanji.Extractor
	sentenceExtractor *sentence.Extractor
}

// NewService creates a Service reading pages from the given fetcher. snapshots may be nil when
// Snapshot is never called.
func NewService(
	pages fetch.Fetcher,
	snapshots Snapshotter,
	kanjiExtractor *kanji.Extractor,
	sentenceExtractor *sentence.Extractor,
) *Service {
	return &Service{
		pages:             pages,
		snapshots:         snapshots,
		kanjiExtractor:    kanjiExtractor,
		sentenceExtractor: sentenceExtractor,
	}
}

// NormalizeQuery trims and NFC-normalizes a query, rejecting input that has no East Asian script.
func NormalizeQuery(query string) (string, error) {
	query = document.Normalize(strings.TrimSpace(query))
	if query == "" {
		return "", fmt.Errorf("empty query: %w", ErrUnsupportedQuery)
	}
	for _, r := range query {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
			return query, nil
		}
	}
	return "", fmt.Errorf("%q: %w", query, ErrUnsupportedQuery)
}

// Profile fetches the kanji page of the query and extracts its profile.
func (s *Service) Profile(ctx context.Context, query string) (kanji.Profile, error) {
	query, err := NormalizeQuery(query)
	if err != nil {
		return kanji.Profile{}, err
	}

	doc, err := s.document(ctx, fetch.PageKindKanji, query)
	if err != nil {
		return kanji.Profile{}, err
	}

	profile, err := s.kanjiExtractor.Extract(doc, query)
	if err != nil {
		return kanji.Profile{}, fmt.Errorf("kanjiExtractor.Extract(%s) > %w", query, err)
	}
	return profile, nil
}

// Sentences fetches the sentence page of the query. The page is retrieved and parsed before
// returning; the sentences themselves are aligned lazily as the sequence is ranged over.
func (s *Service) Sentences(ctx context.Context, query string) (iter.Seq[furigana.AnnotatedSentence], error) {
	query, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	doc, err := s.document(ctx, fetch.PageKindSentences, query)
	if err != nil {
		return nil, err
	}
	return s.sentenceExtractor.Extract(doc), nil
}

// Snapshot fetches both pages of the query concurrently and saves them. It returns the saved
// paths, kanji page first.
func (s *Service) Snapshot(ctx context.Context, query string) ([]string, error) {
	if s.snapshots == nil {
		return nil, errors.New("no snapshot store is configured")
	}
	query, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	kinds := []fetch.PageKind{fetch.PageKindKanji, fetch.PageKindSentences}
	pages := make([][]byte, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			page, err := s.pages.Fetch(gctx, kind, query)
			if err != nil {
				return fmt.Errorf("pages.Fetch(%s, %s) > %w", kind, query, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(kinds))
	for i, kind := range kinds {
		path, err := s.snapshots.Save(kind, query, pages[i])
		if err != nil {
			return nil, fmt.Errorf("snapshots.Save(%s, %s) > %w", kind, query, err)
		}
		slog.Default().Debug("saved snapshot", "kind", kind, "query", query, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Service) document(ctx context.Context, kind fetch.PageKind, query string) (*document.Document, error) {
	page, err := s.pages.Fetch(ctx, kind, query)
	if err != nil {
		return nil, fmt.Errorf("pages.Fetch(%s, %s) > %w", kind, query, err)
	}
	doc, err := document.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("document.Parse(%s, %s) > %w", kind, query, err)
	}
	return doc, nil
}
