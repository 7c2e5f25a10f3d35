package furigana

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseFragment(t *testing.T, markup string) *html.Node {
	t.Helper()

	doc, err := html.Parse(strings.NewReader("<html><body>" + markup + "</body></html>"))
	require.NoError(t, err)

	fragment := findElement(doc, "ul")
	require.NotNil(t, fragment, "no <ul> in %q", markup)
	return fragment
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name         string
		markup       string
		wantSegments []Segment
		wantKanji    string
		wantKana     string
		wantMismatch *AlignmentMismatch
	}{
		{
			name: "units with plain kana between them",
			markup: `<ul class="japanese_sentence">
  <li class="clearfix"><span class="furigana">きょう</span><span class="unlinked">今日</span></li>
  は
  <li class="clearfix"><span class="furigana">まんげつ</span><span class="unlinked">満月</span></li>
  だ。
</ul>`,
			wantSegments: []Segment{
				{BaseText: "今日", Reading: "きょう"},
				{BaseText: "は"},
				{BaseText: "満月", Reading: "まんげつ"},
				{BaseText: "だ。"},
			},
			wantKanji: "今日は満月だ。",
			wantKana:  "きょうはまんげつだ。",
		},
		{
			name: "same base text with different readings",
			markup: `<ul>
<li><span class="furigana">ひ</span><span class="unlinked">日</span></li>と<li><span class="furigana">にち</span><span class="unlinked">日</span></li>
</ul>`,
			wantSegments: []Segment{
				{BaseText: "日", Reading: "ひ"},
				{BaseText: "と"},
				{BaseText: "日", Reading: "にち"},
			},
			wantKanji: "日と日",
			wantKana:  "ひとにち",
		},
		{
			name:   "spans directly under the fragment are zipped by position",
			markup: `<ul><span class="furigana">ひ</span><span class="unlinked">日</span><span class="furigana">か</span><span class="unlinked">日</span></ul>`,
			wantSegments: []Segment{
				{BaseText: "日", Reading: "ひ"},
				{BaseText: "日", Reading: "か"},
			},
			wantKanji: "日日",
			wantKana:  "ひか",
		},
		{
			name:   "unit without reading",
			markup: `<ul><li><span class="unlinked">です</span></li></ul>`,
			wantSegments: []Segment{
				{BaseText: "です"},
			},
			wantKanji: "です",
			wantKana:  "です",
		},
		{
			name:   "empty reading span",
			markup: `<ul><li><span class="furigana"></span><span class="unlinked">です</span></li></ul>`,
			wantSegments: []Segment{
				{BaseText: "です"},
			},
			wantKanji: "です",
			wantKana:  "です",
		},
		{
			name:   "more bases than readings",
			markup: `<ul><li><span class="furigana">たか</span><span class="unlinked">高</span><span class="unlinked">い</span></li></ul>`,
			wantSegments: []Segment{
				{BaseText: "高", Reading: "たか"},
				{BaseText: "い"},
			},
			wantKanji:    "高い",
			wantKana:     "たかい",
			wantMismatch: &AlignmentMismatch{Bases: 2, Readings: 1},
		},
		{
			name:   "more readings than bases",
			markup: `<ul><li><span class="furigana">たか</span><span class="furigana">い</span><span class="unlinked">高</span></li></ul>`,
			wantSegments: []Segment{
				{BaseText: "高", Reading: "たか"},
			},
			wantKanji:    "高",
			wantKana:     "たか",
			wantMismatch: &AlignmentMismatch{Bases: 1, Readings: 2},
		},
		{
			name:   "okurigana after the base span",
			markup: `<ul><li><span class="furigana">み</span><span class="unlinked">見</span>える</li></ul>`,
			wantSegments: []Segment{
				{BaseText: "見", Reading: "み"},
				{BaseText: "える"},
			},
			wantKanji: "見える",
			wantKana:  "みえる",
		},
		{
			name:   "base span wrapped in a link",
			markup: `<ul><li><span class="furigana">つき</span><a href="/search/月"><span class="unlinked">月</span></a></li></ul>`,
			wantSegments: []Segment{
				{BaseText: "月", Reading: "つき"},
			},
			wantKanji: "月",
			wantKana:  "つき",
		},
		{
			name:         "empty fragment",
			markup:       `<ul>  </ul>`,
			wantSegments: []Segment{},
		},
		{
			name:   "decomposed voiced kana are composed",
			markup: "<ul><li><span class=\"furigana\">\u304b\u3099っこう</span><span class=\"unlinked\">学校</span></li>\u3066\u3099す</ul>",
			wantSegments: []Segment{
				{BaseText: "学校", Reading: "\u304c\u3063\u3053\u3046"},
				{BaseText: "\u3067\u3059"},
			},
			wantKanji: "学校\u3067\u3059",
			wantKana:  "\u304c\u3063\u3053\u3046\u3067\u3059",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Align(parseFragment(t, tt.markup))

			assert.Equal(t, tt.wantSegments, got.Segments)
			assert.Equal(t, tt.wantKanji, got.KanjiForm)
			assert.Equal(t, tt.wantKana, got.KanaForm)
			assert.Equal(t, tt.wantMismatch, got.Mismatch)
			assert.Equal(t, tt.wantMismatch != nil, got.Degraded())
			assertConcatenation(t, got)
		})
	}
}

func TestAlign_NilFragment(t *testing.T) {
	got := Align(nil)
	assert.Empty(t, got.Segments)
	assert.Empty(t, got.KanjiForm)
	assert.Nil(t, got.Mismatch)
}

func TestAligner_CustomClasses(t *testing.T) {
	fragment := parseFragment(t, `<ul><li><span class="yomi">やま</span><span class="kaki">山</span></li></ul>`)

	got := NewAligner("yomi", "kaki").Align(fragment)
	assert.Equal(t, []Segment{{BaseText: "山", Reading: "やま"}}, got.Segments)

	// with the default classes nothing is recognised as a span
	got = Align(fragment)
	assert.Equal(t, []Segment{{BaseText: "やま"}, {BaseText: "山"}}, got.Segments)
}

func TestAlign_IsRepeatable(t *testing.T) {
	fragment := parseFragment(t, `<ul><li><span class="furigana">あき</span><span class="unlinked">秋</span></li>の<li><span class="furigana">よぞら</span><span class="unlinked">夜空</span></li></ul>`)

	assert.Equal(t, Align(fragment), Align(fragment))
}

func assertConcatenation(t *testing.T, sentence AnnotatedSentence) {
	t.Helper()

	var kanji, kana strings.Builder
	for _, segment := range sentence.Segments {
		kanji.WriteString(segment.BaseText)
		if segment.Reading != "" {
			kana.WriteString(segment.Reading)
		} else {
			kana.WriteString(segment.BaseText)
		}
	}
	assert.Equal(t, sentence.KanjiForm, kanji.String())
	assert.Equal(t, sentence.KanaForm, kana.String())
}
