package models

import (
	"fmt"
	"strings"
)

// Style is the naming convention used for generated field names.
type Style string

const (
	StyleUnderscore Style = "underscore"
	StyleCamelCase  Style = "camelcase"
)

// DefaultStyle matches the snake_case convention of Python attributes.
const DefaultStyle = StyleUnderscore

// ParseStyle accepts the canonical names plus a few common spellings.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "underscore", "snake", "snake_case":
		return StyleUnderscore, nil
	case "camelcase", "camel", "camel_case":
		return StyleCamelCase, nil
	}
	return "", fmt.Errorf("unknown style %q: expected %q or %q", s, StyleUnderscore, StyleCamelCase)
}

// UnmarshalText lets Style be decoded from YAML and CLI flags.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Style) String() string {
	if s == "" {
		return string(DefaultStyle)
	}
	return string(s)
}
