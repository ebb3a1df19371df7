package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"lexia/internal/core"
)

// Settings are the business inputs that are not deployment concerns.
type Settings struct {
	TimeSlots    []string `yaml:"time_slots"`
	AnnualTarget int64    `yaml:"annual_target"`
	AccountTypes []string `yaml:"account_types"`
}

// DefaultAccountTypes is the bookkeeping vocabulary used when no settings
// file overrides it.
var DefaultAccountTypes = []string{
	"売上高", "仕入高", "旅費交通費", "通信費", "水道光熱費",
	"地代家賃", "消耗品費", "広告宣伝費", "外注費", "給料手当",
	"支払手数料", "福利厚生費", "雑収入", "雑費", "その他",
}

var slotPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func DefaultSettings() Settings {
	return Settings{
		TimeSlots:    append([]string(nil), core.DefaultTimeSlots...),
		AnnualTarget: 10_000_000,
		AccountTypes: append([]string(nil), DefaultAccountTypes...),
	}
}

// LoadSettings reads a YAML settings file. Keys absent from the file keep
// their default values.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	for i := range s.TimeSlots {
		s.TimeSlots[i] = strings.TrimSpace(s.TimeSlots[i])
	}
	return s, nil
}

// Validate reports every problem with the settings at once.
func (s Settings) Validate() error {
	if p := s.problems(); len(p) > 0 {
		return fmt.Errorf("settings invalid:\n- %s", strings.Join(p, "\n- "))
	}
	return nil
}

// HasAccountType reports whether name is in the configured vocabulary.
func (s Settings) HasAccountType(name string) bool {
	for _, t := range s.AccountTypes {
		if t == name {
			return true
		}
	}
	return false
}

func (s Settings) problems() []string {
	var out []string
	if len(s.TimeSlots) == 0 {
		out = append(out, "at least one time slot is required")
	}
	seen := make(map[string]bool, len(s.TimeSlots))
	for _, t := range s.TimeSlots {
		if !slotPattern.MatchString(t) {
			out = append(out, fmt.Sprintf("invalid time slot '%s': must be HH:MM", t))
		}
		if seen[t] {
			out = append(out, fmt.Sprintf("duplicate time slot '%s'", t))
		}
		seen[t] = true
	}
	if s.AnnualTarget < 0 {
		out = append(out, fmt.Sprintf("invalid annual target %d: must not be negative", s.AnnualTarget))
	}
	if len(s.AccountTypes) == 0 {
		out = append(out, "at least one account type is required")
	}
	return out
}
