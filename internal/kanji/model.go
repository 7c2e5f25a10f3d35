package kanji

// JLPTLevel is one of the five Japanese-Language Proficiency Test levels.
type JLPTLevel string

const (
	JLPTLevelN1 JLPTLevel = "N1"
	JLPTLevelN2 JLPTLevel = "N2"
	JLPTLevelN3 JLPTLevel = "N3"
	JLPTLevelN4 JLPTLevel = "N4"
	JLPTLevelN5 JLPTLevel = "N5"
)

var allJLPTLevels = []JLPTLevel{
	JLPTLevelN1,
	JLPTLevelN2,
	JLPTLevelN3,
	JLPTLevelN4,
	JLPTLevelN5,
}

// ParseJLPTLevel maps a page token such as "N5" to a level.
func ParseJLPTLevel(token string) (JLPTLevel, error) {
	for _, level := range allJLPTLevels {
		if token == string(level) {
			return level, nil
		}
	}
	return "", &ExtractionError{Kind: KindInvalidJLPTLevel, Name: token}
}

// ReadingExample is a compound that uses one of the readings.
type ReadingExample struct {
	BaseText string `json:"base_text" yaml:"base_text"`
	Reading  string `json:"reading" yaml:"reading"`
	Gloss    string `json:"gloss" yaml:"gloss"`
}

// Profile is everything known about one character.
type Profile struct {
	TaughtGrade     *string          `json:"taught_grade,omitempty" yaml:"taught_grade,omitempty"`
	JLPTLevel       *JLPTLevel       `json:"jlpt_level,omitempty" yaml:"jlpt_level,omitempty"`
	StrokeCount     uint             `json:"stroke_count" yaml:"stroke_count"`
	CoreMeaning     string           `json:"core_meaning" yaml:"core_meaning"`
	KunReadings     []string         `json:"kun_readings" yaml:"kun_readings"`
	OnReadings      []string         `json:"on_readings" yaml:"on_readings"`
	KunExamples     []ReadingExample `json:"kun_examples" yaml:"kun_examples"`
	OnExamples      []ReadingExample `json:"on_examples" yaml:"on_examples"`
	Components      []string         `json:"components" yaml:"components"`
	SourceReference string           `json:"source_reference" yaml:"source_reference"`
}
