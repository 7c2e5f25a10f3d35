package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Format string

func (f *Format) Set(val string) error {
	for _, format := range allFormats {
		if val == string(format) {
			*f = format
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s", val)
}

func (f Format) String() string {
	return string(f)
}

func (f *Format) Type() string {
	return "Format"
}

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	_          pflag.Value = (*Format)(nil)
	allFormats             = []Format{FormatText, FormatJSON, FormatYAML}
)

func addFormatFlag(cmd *cobra.Command, format *Format) {
	cmd.Flags().Var(format, "format", fmt.Sprintf("Output format. Possible values are %v. Defaults to output.format of the config", allFormats))
}

// resolveFormat prefers the flag and falls back to the configured format.
func resolveFormat(cmd *cobra.Command, flagValue Format, configured string) (Format, error) {
	if cmd.Flags().Changed("format") {
		return flagValue, nil
	}
	var format Format
	if err := format.Set(configured); err != nil {
		return "", err
	}
	return format, nil
}

func writeStructured(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("json.Encode > %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return fmt.Errorf("yaml.Encode > %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("yaml.Close > %w", err)
		}
	default:
		return fmt.Errorf("unsupported structured format: %s", format)
	}
	return nil
}
