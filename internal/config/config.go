package config

import (
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/kanjidex/internal/kanji"
	"github.com/at-ishikawa/kanjidex/internal/sentence"
)

type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Snapshots SnapshotsConfig `mapstructure:"snapshots"`
	Selectors SelectorsConfig `mapstructure:"selectors"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Output    OutputConfig    `mapstructure:"output"`
}

type SourceConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
	RetryAttempts  uint   `mapstructure:"retry_attempts"`
}

type SnapshotsConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

type SelectorsConfig struct {
	Kanji     KanjiSelectorsConfig    `mapstructure:"kanji"`
	Sentences SentenceSelectorsConfig `mapstructure:"sentences"`
}

type KanjiSelectorsConfig struct {
	Grade          string `mapstructure:"grade" validate:"required,selector"`
	JLPT           string `mapstructure:"jlpt" validate:"required,selector"`
	StrokeCount    string `mapstructure:"stroke_count" validate:"required,selector"`
	Meaning        string `mapstructure:"meaning" validate:"required,selector"`
	KunReadings    string `mapstructure:"kun_readings" validate:"required,selector"`
	OnReadings     string `mapstructure:"on_readings" validate:"required,selector"`
	ExampleColumns string `mapstructure:"example_columns" validate:"required,selector"`
	ExampleBlocks  string `mapstructure:"example_blocks" validate:"required,selector"`
	Components     string `mapstructure:"components" validate:"required,selector"`
}

// Schema converts the configured selectors for the profile extractor.
func (c KanjiSelectorsConfig) Schema() kanji.Schema {
	return kanji.Schema{
		Grade:          c.Grade,
		JLPT:           c.JLPT,
		StrokeCount:    c.StrokeCount,
		Meaning:        c.Meaning,
		KunReadings:    c.KunReadings,
		OnReadings:     c.OnReadings,
		ExampleColumns: c.ExampleColumns,
		ExampleBlocks:  c.ExampleBlocks,
		Components:     c.Components,
	}
}

type SentenceSelectorsConfig struct {
	Sentence     string `mapstructure:"sentence" validate:"required,selector"`
	Gloss        string `mapstructure:"gloss" validate:"required,selector"`
	Fragment     string `mapstructure:"fragment" validate:"required,selector"`
	ReadingClass string `mapstructure:"reading_class" validate:"required"`
	BaseClass    string `mapstructure:"base_class" validate:"required,nefield=ReadingClass"`
}

// Schema converts the configured selectors for the sentence extractor.
func (c SentenceSelectorsConfig) Schema() sentence.Schema {
	return sentence.Schema{
		Sentence:     c.Sentence,
		Gloss:        c.Gloss,
		Fragment:     c.Fragment,
		ReadingClass: c.ReadingClass,
		BaseClass:    c.BaseClass,
	}
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=text json yaml"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/kanjidex")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("source.base_url", "https://jisho.org/search")
	v.SetDefault("source.user_agent", "kanjidex/0.1")
	v.SetDefault("source.timeout_seconds", 30)
	v.SetDefault("source.retry_attempts", 3)
	v.SetDefault("snapshots.directory", "snapshots")
	v.SetDefault("output.format", "text")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")

	kanjiSchema := kanji.DefaultSchema()
	v.SetDefault("selectors.kanji.grade", kanjiSchema.Grade)
	v.SetDefault("selectors.kanji.jlpt", kanjiSchema.JLPT)
	v.SetDefault("selectors.kanji.stroke_count", kanjiSchema.StrokeCount)
	v.SetDefault("selectors.kanji.meaning", kanjiSchema.Meaning)
	v.SetDefault("selectors.kanji.kun_readings", kanjiSchema.KunReadings)
	v.SetDefault("selectors.kanji.on_readings", kanjiSchema.OnReadings)
	v.SetDefault("selectors.kanji.example_columns", kanjiSchema.ExampleColumns)
	v.SetDefault("selectors.kanji.example_blocks", kanjiSchema.ExampleBlocks)
	v.SetDefault("selectors.kanji.components", kanjiSchema.Components)

	sentenceSchema := sentence.DefaultSchema()
	v.SetDefault("selectors.sentences.sentence", sentenceSchema.Sentence)
	v.SetDefault("selectors.sentences.gloss", sentenceSchema.Gloss)
	v.SetDefault("selectors.sentences.fragment", sentenceSchema.Fragment)
	v.SetDefault("selectors.sentences.reading_class", sentenceSchema.ReadingClass)
	v.SetDefault("selectors.sentences.base_class", sentenceSchema.BaseClass)

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
