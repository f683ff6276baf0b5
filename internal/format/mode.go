package format

import (
	"strings"

	"kuantokusta/internal/domain"
)

// Mode selects the output representation
type Mode string

const (
	Table   Mode = "table"
	JSON    Mode = "json"
	Compact Mode = "compact"
)

// Modes lists the supported output modes
var Modes = []Mode{Table, JSON, Compact}

// ParseMode parses a mode name, case-insensitively
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Table, JSON, Compact:
		return m, nil
	}
	return "", domain.InvalidArgument("unsupported output format %q (want table, json or compact)", s)
}

// String implements pflag.Value
func (m *Mode) String() string {
	return string(*m)
}

// Set implements pflag.Value
func (m *Mode) Set(s string) error {
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value
func (m *Mode) Type() string {
	return "table|json|compact"
}
