package roster

import "fmt"

// Domain is the scientific field a player comes from. It drives attribute
// bonuses and pairwise team chemistry.
type Domain string

const (
	DomainComputerScience    Domain = "computer_science"
	DomainMechanicalPhysics  Domain = "mechanical_physics"
	DomainBioChemistry       Domain = "bio_chemistry"
	DomainPhysicalChemistry  Domain = "physical_chemistry"
	DomainMathematics        Domain = "mathematics"
	DomainElectronics        Domain = "electronics"
	DomainMedicine           Domain = "medicine"
	DomainChemistry          Domain = "chemistry"
	DomainBankingMathematics Domain = "banking_mathematics"
	DomainGrants             Domain = "grants"
	DomainCybersecurity      Domain = "cybersecurity"
	DomainBankingElectronics Domain = "banking_electronics"
	DomainAgriGeology        Domain = "agri_geology"
)

// Domains lists every domain in declaration order.
var Domains = []Domain{
	DomainComputerScience,
	DomainMechanicalPhysics,
	DomainBioChemistry,
	DomainPhysicalChemistry,
	DomainMathematics,
	DomainElectronics,
	DomainMedicine,
	DomainChemistry,
	DomainBankingMathematics,
	DomainGrants,
	DomainCybersecurity,
	DomainBankingElectronics,
	DomainAgriGeology,
}

// DomainBonus holds per-attribute multipliers applied to base attributes.
type DomainBonus struct {
	Speed        float64
	Strength     float64
	Precision    float64
	Endurance    float64
	Intelligence float64
	Creativity   float64
	Defense      float64
	Attack       float64
	Heading      float64
}

var domainBonuses = map[Domain]DomainBonus{
	DomainComputerScience:    {Speed: 1.1, Strength: 1.2, Precision: 0.85, Endurance: 1.05, Intelligence: 1.4, Creativity: 1.2, Defense: 1.15, Attack: 0.95, Heading: 1.1},
	DomainMechanicalPhysics:  {Speed: 1.1, Strength: 1.3, Precision: 1.35, Endurance: 1.25, Intelligence: 1.1, Creativity: 1.0, Defense: 0.75, Attack: 1.4, Heading: 1.0},
	DomainBioChemistry:       {Speed: 1.2, Strength: 0.9, Precision: 1.2, Endurance: 0.75, Intelligence: 1.1, Creativity: 1.4, Defense: 0.9, Attack: 1.2, Heading: 0.9},
	DomainPhysicalChemistry:  {Speed: 1.1, Strength: 1.15, Precision: 1.25, Endurance: 1.1, Intelligence: 1.2, Creativity: 1.2, Defense: 1.2, Attack: 1.2, Heading: 1.0},
	DomainMathematics:        {Speed: 1.3, Strength: 1.0, Precision: 0.9, Endurance: 1.2, Intelligence: 1.5, Creativity: 0.85, Defense: 1.3, Attack: 0.9, Heading: 1.0},
	DomainElectronics:        {Speed: 1.15, Strength: 1.1, Precision: 1.2, Endurance: 1.25, Intelligence: 1.2, Creativity: 1.1, Defense: 0.9, Attack: 1.1, Heading: 1.3},
	DomainMedicine:           {Speed: 0.8, Strength: 1.3, Precision: 1.25, Endurance: 1.3, Intelligence: 1.1, Creativity: 1.0, Defense: 1.0, Attack: 1.2, Heading: 1.0},
	DomainChemistry:          {Speed: 0.85, Strength: 1.0, Precision: 1.1, Endurance: 1.0, Intelligence: 1.2, Creativity: 1.4, Defense: 1.15, Attack: 1.25, Heading: 1.0},
	DomainBankingMathematics: {Speed: 1.1, Strength: 0.85, Precision: 1.2, Endurance: 1.25, Intelligence: 1.35, Creativity: 1.3, Defense: 1.0, Attack: 1.3, Heading: 1.0},
	DomainGrants:             {Speed: 0.8, Strength: 1.1, Precision: 1.2, Endurance: 1.0, Intelligence: 1.1, Creativity: 1.5, Defense: 1.15, Attack: 1.35, Heading: 1.2},
	DomainCybersecurity:      {Speed: 1.0, Strength: 1.4, Precision: 0.75, Endurance: 1.1, Intelligence: 1.3, Creativity: 0.9, Defense: 1.6, Attack: 0.6, Heading: 1.3},
	DomainBankingElectronics: {Speed: 1.4, Strength: 1.1, Precision: 0.75, Endurance: 1.0, Intelligence: 1.1, Creativity: 1.35, Defense: 1.1, Attack: 1.2, Heading: 1.0},
	DomainAgriGeology:        {Speed: 1.35, Strength: 1.1, Precision: 0.8, Endurance: 1.3, Intelligence: 0.85, Creativity: 1.0, Defense: 1.3, Attack: 0.85, Heading: 1.0},
}

var neutralBonus = DomainBonus{1, 1, 1, 1, 1, 1, 1, 1, 1}

// Valid reports whether d is one of the known domains.
func (d Domain) Valid() bool {
	_, ok := domainBonuses[d]
	return ok
}

// Bonus returns the attribute multipliers for the domain. Unknown domains
// get neutral multipliers.
func (d Domain) Bonus() DomainBonus {
	if b, ok := domainBonuses[d]; ok {
		return b
	}
	return neutralBonus
}

// ParseDomain converts a string into a Domain, rejecting unknown values.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown domain %q", s)
	}
	return d, nil
}

type domainPair struct{ a, b Domain }

// Synergies are symmetric; only one orientation is stored.
var synergies = map[domainPair]float64{
	{DomainComputerScience, DomainMathematics}:           1.0,
	{DomainBioChemistry, DomainChemistry}:                1.0,
	{DomainMechanicalPhysics, DomainPhysicalChemistry}:   1.0,
	{DomainElectronics, DomainBankingElectronics}:        1.0,
	{DomainBankingMathematics, DomainBankingElectronics}: 0.95,
	{DomainMedicine, DomainBioChemistry}:                 0.9,
	{DomainCybersecurity, DomainComputerScience}:         0.9,
	{DomainPhysicalChemistry, DomainChemistry}:           0.85,
	{DomainAgriGeology, DomainBioChemistry}:              0.8,
	{DomainGrants, DomainBankingMathematics}:             0.85,
}

// CompatibilityWith returns the chemistry contribution of pairing d with
// other, in [0,1].
func (d Domain) CompatibilityWith(other Domain) float64 {
	if v, ok := synergies[domainPair{d, other}]; ok {
		return v
	}
	if v, ok := synergies[domainPair{other, d}]; ok {
		return v
	}
	if d == other {
		// same field: rivalry more than synergy
		return 0.6
	}
	return 0.5
}
