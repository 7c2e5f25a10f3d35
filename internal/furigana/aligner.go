// Package furigana aligns ruby-style reading annotations with the text they annotate.
//
// A sentence fragment interleaves base spans (the text as written) with reading spans (its kana reading).
// Alignment pairs the two by position inside each annotation unit, never by value, so a word that
// appears twice in a sentence keeps both of its readings.
package furigana

import (
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/at-ishikawa/kanjidex/internal/document"
)

const (
	DefaultReadingClass = "furigana"
	DefaultBaseClass    = "unlinked"
)

// Segment is one aligned piece of a sentence. Reading is empty when the source carried no annotation.
type Segment struct {
	BaseText string `json:"base_text" yaml:"base_text"`
	Reading  string `json:"reading,omitempty" yaml:"reading,omitempty"`
}

// AlignmentMismatch counts the spans of the annotated units whose base and reading spans did not pair up.
type AlignmentMismatch struct {
	Bases    int `json:"bases" yaml:"bases"`
	Readings int `json:"readings" yaml:"readings"`
}

// AnnotatedSentence is an example sentence split into aligned segments.
type AnnotatedSentence struct {
	Gloss     string             `json:"gloss" yaml:"gloss"`
	KanjiForm string             `json:"kanji_form" yaml:"kanji_form"`
	KanaForm  string             `json:"kana_form" yaml:"kana_form"`
	Segments  []Segment          `json:"segments" yaml:"segments"`
	Mismatch  *AlignmentMismatch `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
}

// Degraded reports whether some unit had to be aligned with the mismatch policy.
func (s AnnotatedSentence) Degraded() bool {
	return s.Mismatch != nil
}

// Aligner recognises reading and base spans by their class attribute.
type Aligner struct {
	readingClass string
	baseClass    string
}

func NewAligner(readingClass, baseClass string) *Aligner {
	return &Aligner{
		readingClass: readingClass,
		baseClass:    baseClass,
	}
}

var defaultAligner = NewAligner(DefaultReadingClass, DefaultBaseClass)

// Align aligns a fragment using the furigana and unlinked classes.
func Align(fragment *html.Node) AnnotatedSentence {
	return defaultAligner.Align(fragment)
}

// Align decomposes fragment into segments. It never fails; see alignment for the mismatch policy.
func (a *Aligner) Align(fragment *html.Node) AnnotatedSentence {
	var state alignment
	if fragment != nil {
		a.walkFragment(fragment, &state)
	}
	state.flush()
	return newAnnotatedSentence(state.segments, state.mismatch)
}

// walkFragment visits the direct children of the fragment. Spans found directly under the
// fragment accumulate until plain text or another element interrupts them; every other element
// is an annotation unit of its own.
func (a *Aligner) walkFragment(fragment *html.Node, state *alignment) {
	for c := fragment.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			state.plain(c.Data)
		case html.ElementNode:
			if a.collectSpan(c, state) {
				continue
			}
			state.flush()
			a.walkUnit(c, state)
			state.flush()
		}
	}
}

// walkUnit collects the spans below n in document order.
func (a *Aligner) walkUnit(n *html.Node, state *alignment) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			state.plain(c.Data)
		case html.ElementNode:
			if a.collectSpan(c, state) {
				continue
			}
			a.walkUnit(c, state)
		}
	}
}

func (a *Aligner) collectSpan(n *html.Node, state *alignment) bool {
	switch {
	case hasClass(n, a.readingClass):
		state.readings = append(state.readings, strings.TrimSpace(nodeText(n)))
		return true
	case hasClass(n, a.baseClass):
		state.bases = append(state.bases, strings.TrimSpace(nodeText(n)))
		return true
	}
	return false
}

// alignment accumulates segments while the fragment is walked. bases and readings hold the spans
// of the current unit, in document order, until flush pairs them.
type alignment struct {
	segments []Segment
	bases    []string
	readings []string
	mismatch *AlignmentMismatch
}

// plain adds text that sits outside any span as an unannotated segment.
func (s *alignment) plain(text string) {
	text = document.Normalize(strings.TrimSpace(text))
	if text == "" {
		return
	}
	s.flush()
	s.segments = append(s.segments, Segment{BaseText: text})
}

// flush zips the pending spans by position. When the counts differ, pairs are made up to the
// shorter length, leftover bases follow with an empty reading and leftover readings are dropped.
func (s *alignment) flush() {
	if len(s.bases) == 0 && len(s.readings) == 0 {
		return
	}

	paired := min(len(s.bases), len(s.readings))
	for i := range paired {
		s.segments = append(s.segments, Segment{BaseText: s.bases[i], Reading: s.readings[i]})
	}
	for _, base := range s.bases[paired:] {
		s.segments = append(s.segments, Segment{BaseText: base})
	}

	// A unit without any reading span is plain unannotated text, not a mismatch.
	if len(s.readings) > 0 && len(s.bases) != len(s.readings) {
		if s.mismatch == nil {
			s.mismatch = &AlignmentMismatch{}
		}
		s.mismatch.Bases += len(s.bases)
		s.mismatch.Readings += len(s.readings)
	}

	s.bases = s.bases[:0]
	s.readings = s.readings[:0]
}

func newAnnotatedSentence(segments []Segment, mismatch *AlignmentMismatch) AnnotatedSentence {
	var kanji, kana strings.Builder
	for _, segment := range segments {
		kanji.WriteString(segment.BaseText)
		if segment.Reading != "" {
			kana.WriteString(segment.Reading)
		} else {
			kana.WriteString(segment.BaseText)
		}
	}

	if segments == nil {
		segments = []Segment{}
	}
	return AnnotatedSentence{
		KanjiForm: strings.TrimSpace(kanji.String()),
		KanaForm:  strings.TrimSpace(kana.String()),
		Segments:  segments,
		Mismatch:  mismatch,
	}
}

func hasClass(n *html.Node, class string) bool {
	if class == "" {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			return slices.Contains(strings.Fields(attr.Val), class)
		}
	}
	return false
}

// spanText is the NFC form of the span, so segments compare equal to the glosses and profile fields.
func spanText(n *html.Node) string {
	return document.Normalize(strings.TrimSpace(nodeText(n)))
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var result strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result.WriteString(nodeText(c))
	}
	return result.String()
}
