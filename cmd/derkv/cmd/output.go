package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/derkv/pkg/codec"
	"github.com/ssargent/derkv/pkg/config"
)

// decodedRecord is the printed form of a record
type decodedRecord struct {
	Key      int64  `yaml:"key"`
	ValueHex string `yaml:"value_hex"`
	Value    string `yaml:"value,omitempty"`
}

// formatBytes renders encoded bytes in the requested format
func formatBytes(data []byte, format string) (string, error) {
	switch format {
	case config.OutputHex:
		return hex.EncodeToString(data), nil
	case config.OutputBase64:
		return base64.StdEncoding.EncodeToString(data), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
}

// parseBytes is the inverse of formatBytes. Whitespace and ':' separators are
// ignored in hex input.
func parseBytes(text, format string) ([]byte, error) {
	switch format {
	case config.OutputHex:
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) || r == ':' {
				return -1
			}
			return r
		}, text)
		data, err := hex.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("invalid hex input: %w", err)
		}
		return data, nil
	case config.OutputBase64:
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 input: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// printableValue returns the value as text when it is valid, printable UTF-8
func printableValue(value []byte) (string, bool) {
	if !utf8.Valid(value) {
		return "", false
	}
	for _, r := range string(value) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return "", false
		}
	}
	return string(value), true
}

// outputRecord writes a record as YAML
func outputRecord(w io.Writer, record *codec.Record) error {
	key, _ := record.KeyValue()
	out := decodedRecord{
		Key:      key,
		ValueHex: hex.EncodeToString(record.Value),
	}
	if text, ok := printableValue(record.Value); ok {
		out.Value = text
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return enc.Close()
}
