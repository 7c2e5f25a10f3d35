package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Set(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    Format
		wantErr bool
	}{
		{name: "text", value: "text", want: FormatText},
		{name: "json", value: "json", want: FormatJSON},
		{name: "yaml", value: "yaml", want: FormatYAML},
		{name: "invalid format", value: "xml", wantErr: true},
		{name: "case sensitive", value: "JSON", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var format Format
			err := format.Set(tt.value)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid format")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, format)
		})
	}
}

func TestFormat_StringAndType(t *testing.T) {
	format := FormatYAML
	assert.Equal(t, "yaml", format.String())
	assert.Equal(t, "Format", format.Type())
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		configured string
		want       Format
		wantErr    bool
	}{
		{name: "flag wins", args: []string{"--format", "json"}, configured: "yaml", want: FormatJSON},
		{name: "config when flag is absent", configured: "yaml", want: FormatYAML},
		{name: "invalid config value", configured: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var format Format
			cmd := &cobra.Command{Use: "test"}
			addFormatFlag(cmd, &format)
			require.NoError(t, cmd.ParseFlags(tt.args))

			got, err := resolveFormat(cmd, format, tt.configured)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteStructured(t *testing.T) {
	data := struct {
		Kanji string `json:"kanji" yaml:"kanji"`
		Note  string `json:"note" yaml:"note"`
	}{Kanji: "語", Note: "<word>"}

	tests := []struct {
		name    string
		format  Format
		want    string
		wantErr bool
	}{
		{
			name:   "json keeps markup unescaped",
			format: FormatJSON,
			want:   "{\n  \"kanji\": \"語\",\n  \"note\": \"<word>\"\n}\n",
		},
		{
			name:   "yaml",
			format: FormatYAML,
			want:   "kanji: 語\nnote: <word>\n",
		},
		{
			name:    "text is not structured",
			format:  FormatText,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := writeStructured(&buf, tt.format, data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
