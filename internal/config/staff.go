package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// staffKey is the top-level mapping holding one entry per person
const staffKey = "DOCTORS"

const dateLayout = "2006-01-02"

// StaffMember is one entry of the staff document
type StaffMember struct {
	Name string `yaml:"-" validate:"required"`

	// EFT is the capacity factor; 1.0 is full time
	EFT *float64 `yaml:"eft" validate:"required,gte=0"`

	// RosebudPreference is a signed weight for working at Rosebud
	RosebudPreference int `yaml:"rosebud_preference"`

	UnavailableDates []string `yaml:"unavailable_dates" validate:"dive,datetime=2006-01-02"`

	// UnavailableRules are RFC 5545 recurrence rules, e.g. "FREQ=WEEKLY;BYDAY=MO"
	UnavailableRules []string `yaml:"unavailable_rules"`

	Email          string `yaml:"email" validate:"omitempty,email"`
	Phone          string `yaml:"phone"`
	Specialization string `yaml:"specialization"`
	Status         string `yaml:"status"`
}

// Active returns true unless the member is marked with a status other than active
func (m StaffMember) Active() bool {
	return m.Status == "" || strings.EqualFold(m.Status, "active")
}

// CapacityFactor returns the EFT, or 0 when it was never set
func (m StaffMember) CapacityFactor() float64 {
	if m.EFT == nil {
		return 0
	}
	return *m.EFT
}

// UnavailableBetween returns every unavailable date from first to last
// inclusive, combining explicit dates and recurrence rules, sorted and unique.
// Explicit dates outside the window are kept so a caller can still see them.
func (m StaffMember) UnavailableBetween(first, last time.Time) ([]string, error) {
	seen := make(map[string]bool)
	for _, d := range m.UnavailableDates {
		seen[d] = true
	}

	for i, rule := range m.UnavailableRules {
		r, err := rrule.StrToRRule(rule)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid unavailable_rules[%d]: %w", m.Name, i, err)
		}
		r.DTStart(first)
		for _, occurrence := range r.Between(first, last, true) {
			seen[occurrence.Format(dateLayout)] = true
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	return dates, nil
}

// StaffDocument is the parsed staff file with members in document order
type StaffDocument struct {
	Members []StaffMember
}

// Lookup finds a member by name
func (d *StaffDocument) Lookup(name string) (StaffMember, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return m, true
		}
	}
	return StaffMember{}, false
}

// LoadStaff reads and parses a staff document from disk
func LoadStaff(path string) (*StaffDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staff file: %w", err)
	}
	return ParseStaff(data)
}

// ParseStaff parses a JSON or YAML staff document.
// Keys under DOCTORS that start with "_" are metadata and skipped.
// Members keep the order they appear in, which drives allocation tie-breaks.
func ParseStaff(data []byte) (*StaffDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		// JSON never has tabs inside strings, and YAML rejects them as indentation
		data = bytes.ReplaceAll(data, []byte("\t"), []byte("  "))
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse staff file: %w", err)
	}

	doc := &StaffDocument{Members: []StaffMember{}}
	if len(root.Content) == 0 {
		return doc, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("staff file must be a mapping with a %s key", staffKey)
	}

	staff := mappingValue(top, staffKey)
	if staff == nil {
		return doc, nil
	}
	if staff.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s must be a mapping of name to details", staffKey)
	}

	seen := make(map[string]bool)
	for i := 0; i+1 < len(staff.Content); i += 2 {
		name := staff.Content[i].Value
		if strings.HasPrefix(name, "_") {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate staff member %q on line %d", name, staff.Content[i].Line)
		}
		seen[name] = true

		var member StaffMember
		if err := staff.Content[i+1].Decode(&member); err != nil {
			return nil, fmt.Errorf("failed to parse staff member %q: %w", name, err)
		}
		member.Name = name

		if err := ValidateStaffMember(&member); err != nil {
			return nil, err
		}

		doc.Members = append(doc.Members, member)
	}

	return doc, nil
}

// ValidateStaffMember checks field constraints and recurrence rule syntax
func ValidateStaffMember(member *StaffMember) error {
	if err := validate.Struct(member); err != nil {
		return fmt.Errorf("staff member %q validation failed: %w", member.Name, err)
	}

	for i, rule := range member.UnavailableRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("staff member %q has invalid unavailable_rules[%d]: %w", member.Name, i, err)
		}
	}

	return nil
}

// mappingValue returns the value node for key in a mapping node
func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
