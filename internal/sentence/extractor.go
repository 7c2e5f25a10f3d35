// Package sentence extracts annotated example sentences from a sentence search page.
package sentence

import (
	"iter"
	"log/slog"

	"github.com/at-ishikawa/kanjidex/internal/document"
	"github.com/at-ishikawa/kanjidex/internal/furigana"
)

// Schema holds the selectors of one example sentence. Gloss and Fragment are queried inside each
// Sentence match.
type Schema struct {
	Sentence     string
	Gloss        string
	Fragment     string
	ReadingClass string
	BaseClass    string
}

// DefaultSchema returns the selectors of jisho.org sentence search pages.
func DefaultSchema() Schema {
	return Schema{
		Sentence:     "div.sentence_content",
		Gloss:        "div.english_sentence span.english",
		Fragment:     "ul.japanese_sentence",
		ReadingClass: furigana.DefaultReadingClass,
		BaseClass:    furigana.DefaultBaseClass,
	}
}

type Extractor struct {
	schema  Schema
	aligner *furigana.Aligner
}

func NewExtractor(schema Schema) *Extractor {
	return &Extractor{
		schema:  schema,
		aligner: furigana.NewAligner(schema.ReadingClass, schema.BaseClass),
	}
}

// Extract yields one annotated sentence per sentence element, in document order.
// Sentences are aligned only as they are pulled, and ranging again starts over from the first one.
func (e *Extractor) Extract(doc document.Queryable) iter.Seq[furigana.AnnotatedSentence] {
	return func(yield func(furigana.AnnotatedSentence) bool) {
		for i, element := range doc.Find(e.schema.Sentence) {
			sentence := e.sentence(element)
			if sentence.Degraded() {
				slog.Default().Warn("sentence readings did not align",
					"index", i,
					"gloss", sentence.Gloss,
					"bases", sentence.Mismatch.Bases,
					"readings", sentence.Mismatch.Readings)
			}
			if !yield(sentence) {
				return
			}
		}
	}
}

func (e *Extractor) sentence(element document.Element) furigana.AnnotatedSentence {
	var sentence furigana.AnnotatedSentence
	if fragment, ok := document.First(element.Find(e.schema.Fragment)); ok {
		sentence = e.aligner.Align(fragment.Node())
	} else {
		slog.Default().Debug("sentence has no fragment", "selector", e.schema.Fragment)
		sentence = e.aligner.Align(nil)
	}

	if gloss, ok := document.First(element.Find(e.schema.Gloss)); ok {
		sentence.Gloss = document.CleanText(gloss.Text())
	}
	return sentence
}
