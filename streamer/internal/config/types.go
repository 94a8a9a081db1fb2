package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Text is a message that tolerates YAML block scalars: the trailing line
// break added by "|" is dropped.
type Text string

func (t *Text) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*t = Text(strings.TrimRight(s, "\r\n"))
	return nil
}

func (t Text) String() string {
	return string(t)
}

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

func (f *LogFormat) UnmarshalText(b []byte) error {
	switch v := LogFormat(strings.ToLower(string(b))); v {
	case "", LogFormatText:
		*f = LogFormatText
	case LogFormatJSON:
		*f = v
	default:
		return fmt.Errorf("unknown log format %q", string(b))
	}
	return nil
}
