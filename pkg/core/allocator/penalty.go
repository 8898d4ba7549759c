package allocator

// Penalty components. A single shift can collect several at once.
const (
	PenaltyLeadershipRole = 3.0
	PenaltyMinorityPM     = 3.0
	PenaltyFridayPM       = 2.0
	PenaltyMinoritySite   = 1.0
)

// leadershipRoles are the roles that carry the leadership penalty
var leadershipRoles = map[string]bool{
	"Blue":  true,
	"Green": true,
}

// PenaltyModel scores how undesirable a shift is on a given day
type PenaltyModel struct {
	MinoritySite Site
}

// NewPenaltyModel builds a model whose minority site comes from the catalog
func NewPenaltyModel(catalog *Catalog) PenaltyModel {
	return PenaltyModel{MinoritySite: catalog.MinoritySite()}
}

// Score returns the additive penalty for working def, e.g. a Friday PM
// leadership shift at the minority site scores 3+3+2+1 = 9
func (m PenaltyModel) Score(def ShiftDefinition, isFriday bool) float64 {
	penalty := 0.0

	if leadershipRoles[def.Role] {
		penalty += PenaltyLeadershipRole
	}

	if def.Site == m.MinoritySite && def.Category == CategoryPM {
		penalty += PenaltyMinorityPM
	}

	if isFriday && def.Category == CategoryPM {
		penalty += PenaltyFridayPM
	}

	if def.Site == m.MinoritySite {
		penalty += PenaltyMinoritySite
	}

	return penalty
}

// ScoreOn is Score with isFriday derived from the assignment date
func (m PenaltyModel) ScoreOn(def ShiftDefinition, date string) float64 {
	return m.Score(def, IsFriday(date))
}
