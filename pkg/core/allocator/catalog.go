package allocator

import "fmt"

const (
	// ClinicalShiftHours is the duration of every AM/PM clinical shift
	ClinicalShiftHours = 10.0

	// AdminShiftHours is the duration of every administrative shift
	AdminShiftHours = 8.0
)

// Catalog is the static set of shift slots offered on every day of the horizon
type Catalog struct {
	// Clinical definitions in offer order (majority site first)
	Clinical []ShiftDefinition

	// Admin definitions in declaration order
	Admin []ShiftDefinition
}

// DefaultCatalog returns the Frankston and Rosebud shift structure
func DefaultCatalog() *Catalog {
	clinical := make([]ShiftDefinition, 0, 11)

	for _, role := range []string{"Blue", "Yellow", "Pink", "Brown", "EPIC"} {
		clinical = append(clinical, ShiftDefinition{
			Site:          SiteFrankston,
			Role:          role,
			Category:      CategoryAM,
			DurationHours: ClinicalShiftHours,
			Undesirable:   role == "Blue",
		})
	}
	for _, role := range []string{"Green", "Orange", "Pink", "Brown"} {
		clinical = append(clinical, ShiftDefinition{
			Site:          SiteFrankston,
			Role:          role,
			Category:      CategoryPM,
			DurationHours: ClinicalShiftHours,
			Undesirable:   role == "Green",
		})
	}
	clinical = append(clinical,
		ShiftDefinition{Site: SiteRosebud, Role: "Red", Category: CategoryAM, DurationHours: ClinicalShiftHours},
		ShiftDefinition{Site: SiteRosebud, Role: "Red", Category: CategoryPM, DurationHours: ClinicalShiftHours, Undesirable: true},
	)

	admin := make([]ShiftDefinition, 0, 14)
	for i := 1; i <= 8; i++ {
		admin = append(admin, adminShift(SiteFrankston, fmt.Sprintf("Admin-%d", i)))
	}
	for i := 1; i <= 4; i++ {
		admin = append(admin, adminShift(SiteFrankston, fmt.Sprintf("Admin-PM-%d", i)))
	}
	for i := 1; i <= 2; i++ {
		admin = append(admin, adminShift(SiteRosebud, fmt.Sprintf("Admin-%d", i)))
	}

	return &Catalog{Clinical: clinical, Admin: admin}
}

func adminShift(site Site, role string) ShiftDefinition {
	return ShiftDefinition{
		Site:          site,
		Role:          role,
		Category:      CategoryAdmin,
		DurationHours: AdminShiftHours,
	}
}

// All returns clinical then admin definitions
func (c *Catalog) All() []ShiftDefinition {
	all := make([]ShiftDefinition, 0, len(c.Clinical)+len(c.Admin))
	all = append(all, c.Clinical...)
	all = append(all, c.Admin...)
	return all
}

// Lookup finds the definition for a structured key
func (c *Catalog) Lookup(key ShiftKey) (ShiftDefinition, bool) {
	for _, def := range c.All() {
		if def.Key() == key {
			return def, true
		}
	}
	return ShiftDefinition{}, false
}

// LookupLabel finds the definition whose rendered label matches
func (c *Catalog) LookupLabel(label string) (ShiftDefinition, bool) {
	for _, def := range c.All() {
		if def.Label() == label {
			return def, true
		}
	}
	return ShiftDefinition{}, false
}

// MinoritySite is the site with fewer defined shift slots overall
func (c *Catalog) MinoritySite() Site {
	return minoritySite(c.All())
}

// AdminMinoritySite is the site with fewer administrative slot definitions
func (c *Catalog) AdminMinoritySite() Site {
	return minoritySite(c.Admin)
}

// minoritySite counts definitions per site and returns the smaller one.
// Ties resolve to Rosebud.
func minoritySite(defs []ShiftDefinition) Site {
	counts := map[Site]int{}
	for _, def := range defs {
		counts[def.Site]++
	}
	if counts[SiteFrankston] < counts[SiteRosebud] {
		return SiteFrankston
	}
	return SiteRosebud
}

// validate checks that no two definitions share an identity
func (c *Catalog) validate() error {
	seen := make(map[ShiftKey]bool)
	for _, def := range c.All() {
		if seen[def.Key()] {
			return fmt.Errorf("%w: duplicate shift definition %q", ErrConfiguration, def.Label())
		}
		if def.DurationHours <= 0 {
			return fmt.Errorf("%w: shift %q has non-positive duration", ErrConfiguration, def.Label())
		}
		seen[def.Key()] = true
	}
	return nil
}
