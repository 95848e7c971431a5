package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrSlotNotConfigured = errors.New("tag not configured for this slot")
	ErrMalformedTag      = errors.New("malformed tag id")
)

//go:embed slots.yaml
var defaultTable []byte

// SlotTags maps a slot identifier to its raw tag id. Values stay raw until
// Resolve so an empty value behaves like a missing slot.
type SlotTags map[string]string

// Resolve returns the tag id configured for slot.
func (s SlotTags) Resolve(slot string) (int, error) {
	raw := strings.TrimSpace(s[slot])
	if raw == "" {
		return 0, ErrSlotNotConfigured
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w for slot %q: %q", ErrMalformedTag, slot, raw)
	}
	return id, nil
}

// Slots returns the recognized slot names in a stable order.
func (s SlotTags) Slots() []string {
	slots := make([]string, 0, len(s))
	for slot := range s {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}

// ParseTable decodes a YAML document of `slot: tagId` pairs.
func ParseTable(data []byte) (SlotTags, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing slot table: %w", err)
	}

	tags := make(SlotTags, len(raw))
	for slot, v := range raw {
		if v == nil {
			tags[slot] = ""
			continue
		}
		tags[slot] = fmt.Sprint(v)
	}
	return tags, nil
}

// FromEnv builds the table from one environment value per slot.
func FromEnv(slots []string, getenv func(string) string) SlotTags {
	tags := make(SlotTags, len(slots))
	for _, slot := range slots {
		tags[slot] = getenv(SlotEnvName(slot))
	}
	return tags
}

// SlotEnvName is the variable holding the tag id for slot in env mode,
// e.g. enfants_salon -> SIO_TAG_ENFANTS_SALON.
func SlotEnvName(slot string) string {
	var b strings.Builder
	b.WriteString("SIO_TAG_")
	for _, r := range strings.ToUpper(slot) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func loadTable(path string) (SlotTags, error) {
	if path == "" {
		return ParseTable(defaultTable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading slot table %s: %w", path, err)
	}
	return ParseTable(data)
}
