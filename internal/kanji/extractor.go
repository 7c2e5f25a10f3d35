// Package kanji extracts character profiles from dictionary detail pages.
package kanji

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/at-ishikawa/kanjidex/internal/document"
)

// Schema holds the CSS selectors used to locate each profile field.
type Schema struct {
	Grade          string
	JLPT           string
	StrokeCount    string
	Meaning        string
	KunReadings    string
	OnReadings     string
	ExampleColumns string
	// ExampleBlocks is queried inside each example column.
	ExampleBlocks string
	Components    string
}

// DefaultSchema returns the selectors of jisho.org kanji pages.
func DefaultSchema() Schema {
	return Schema{
		Grade:          "div.grade strong",
		JLPT:           "div.jlpt strong",
		StrokeCount:    "div.kanji-details__stroke_count strong",
		Meaning:        "div.kanji-details__main-meanings",
		KunReadings:    "div.kanji-details__main-readings dl.dictionary_entry.kun_yomi a",
		OnReadings:     "div.kanji-details__main-readings dl.dictionary_entry.on_yomi a",
		ExampleColumns: "div.small-12.columns div.row.compounds div.small-12.large-6.columns",
		ExampleBlocks:  "ul.no-bullet li",
		Components:     "div.radicals dl.dictionary_entry.on_yomi dd a",
	}
}

const (
	fieldStrokeCount    = "stroke_count"
	fieldCoreMeaning    = "core_meaning"
	fieldExamples       = "examples"
	fieldReadingExample = "reading_example"
)

// Extractor builds a Profile from a parsed page.
type Extractor struct {
	schema Schema
}

func NewExtractor(schema Schema) *Extractor {
	return &Extractor{schema: schema}
}

// Extract reads every field of the profile. Any missing or malformed required field aborts the
// whole extraction with an *ExtractionError; a partial profile is never returned.
func (e *Extractor) Extract(doc document.Queryable, query string) (Profile, error) {
	grade := e.optionalText(doc, e.schema.Grade)

	jlpt, err := e.jlptLevel(doc)
	if err != nil {
		return Profile{}, err
	}

	strokeCount, err := e.strokeCount(doc)
	if err != nil {
		return Profile{}, err
	}

	meaning, ok := document.First(doc.Find(e.schema.Meaning))
	if !ok {
		return Profile{}, missingSection(fieldCoreMeaning)
	}

	onExamples, kunExamples, err := e.examples(doc)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		TaughtGrade:     grade,
		JLPTLevel:       jlpt,
		StrokeCount:     strokeCount,
		CoreMeaning:     document.CleanText(meaning.Text()),
		KunReadings:     texts(doc, e.schema.KunReadings),
		OnReadings:      texts(doc, e.schema.OnReadings),
		KunExamples:     kunExamples,
		OnExamples:      onExamples,
		Components:      texts(doc, e.schema.Components),
		SourceReference: query,
	}, nil
}

func (e *Extractor) optionalText(doc document.Queryable, selector string) *string {
	element, ok := document.First(doc.Find(selector))
	if !ok {
		return nil
	}
	text := document.CleanText(element.Text())
	return &text
}

func (e *Extractor) jlptLevel(doc document.Queryable) (*JLPTLevel, error) {
	token := e.optionalText(doc, e.schema.JLPT)
	if token == nil {
		return nil, nil
	}
	level, err := ParseJLPTLevel(*token)
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (e *Extractor) strokeCount(doc document.Queryable) (uint, error) {
	element, ok := document.First(doc.Find(e.schema.StrokeCount))
	if !ok {
		return 0, missingSection(fieldStrokeCount)
	}

	count, err := strconv.ParseUint(document.CleanText(element.Text()), 10, 32)
	if err != nil {
		return 0, malformedField(fieldStrokeCount, fmt.Errorf("strconv.ParseUint > %w", err))
	}
	if count == 0 {
		return 0, malformedField(fieldStrokeCount, fmt.Errorf("stroke count must be positive"))
	}
	return uint(count), nil
}

// examples returns the on and kun reading compounds, which sit in the first and second column.
func (e *Extractor) examples(doc document.Queryable) ([]ReadingExample, []ReadingExample, error) {
	columns := doc.Find(e.schema.ExampleColumns)
	if len(columns) < 2 {
		return nil, nil, missingSection(fieldExamples)
	}

	onExamples, err := e.columnExamples(columns[0])
	if err != nil {
		return nil, nil, err
	}
	kunExamples, err := e.columnExamples(columns[1])
	if err != nil {
		return nil, nil, err
	}
	return onExamples, kunExamples, nil
}

func (e *Extractor) columnExamples(column document.Element) ([]ReadingExample, error) {
	blocks := column.Find(e.schema.ExampleBlocks)
	examples := make([]ReadingExample, 0, len(blocks))
	for _, block := range blocks {
		example, err := parseReadingExample(block.Text())
		if err != nil {
			return nil, err
		}
		examples = append(examples, example)
	}
	return examples, nil
}

// parseReadingExample reads a block made of a base text line, a 【reading】 line and a gloss line.
// Lines after the third belong to the gloss.
func parseReadingExample(text string) (ReadingExample, error) {
	lines := document.Lines(text)
	if len(lines) < 3 {
		return ReadingExample{}, malformedField(fieldReadingExample,
			fmt.Errorf("expected 3 lines, got %d: %q", len(lines), strings.TrimSpace(text)))
	}

	reading := strings.NewReplacer("【", "", "】", "").Replace(lines[1])
	return ReadingExample{
		BaseText: lines[0],
		Reading:  strings.TrimSpace(reading),
		Gloss:    strings.Join(lines[2:], " "),
	}, nil
}

func texts(doc document.Queryable, selector string) []string {
	elements := doc.Find(selector)
	result := make([]string, 0, len(elements))
	for _, element := range elements {
		result = append(result, document.CleanText(element.Text()))
	}
	return result
}
