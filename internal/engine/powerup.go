package engine

import "fmt"

// PowerUpKind identifies a scientific power-up.
type PowerUpKind string

const (
	PowerUpQuantumSpeed        PowerUpKind = "quantum_speed"
	PowerUpNewtonianForce      PowerUpKind = "newtonian_force"
	PowerUpHeisenberg          PowerUpKind = "heisenberg_uncertainty"
	PowerUpEMC2                PowerUpKind = "emc2"
	PowerUpPhotosynthesis      PowerUpKind = "photosynthesis"
	PowerUpBinaryCode          PowerUpKind = "binary_code"
	PowerUpBlackHole           PowerUpKind = "black_hole"
	PowerUpPlateTectonics      PowerUpKind = "plate_tectonics"
	PowerUpDNAReplication      PowerUpKind = "dna_replication"
	PowerUpTheoryOfEverything  PowerUpKind = "theory_of_everything"
	PowerUpIntegratedCircuit   PowerUpKind = "integrated_circuit"
	PowerUpDefensiveFirewall   PowerUpKind = "defensive_firewall"
	PowerUpChemicalCatalyst    PowerUpKind = "chemical_catalyst"
	PowerUpGrantBoost          PowerUpKind = "grant_boost"
	PowerUpBankingOptimisation PowerUpKind = "banking_optimisation"
)

// Rarity tiers, most common first.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	}
	return fmt.Sprintf("rarity(%d)", int(r))
}

type powerUpInfo struct {
	name    string
	seconds float64
	rarity  Rarity
}

var powerUps = map[PowerUpKind]powerUpInfo{
	PowerUpQuantumSpeed:        {"Quantum Speed", 30, Common},
	PowerUpNewtonianForce:      {"Newtonian Force", 45, Common},
	PowerUpHeisenberg:          {"Heisenberg Uncertainty", 20, Rare},
	PowerUpEMC2:                {"E=mc²", 2, Epic},
	PowerUpPhotosynthesis:      {"Photosynthesis", 60, Common},
	PowerUpBinaryCode:          {"Binary Code", 30, Uncommon},
	PowerUpBlackHole:           {"Black Hole", 25, Uncommon},
	PowerUpPlateTectonics:      {"Plate Tectonics", 40, Rare},
	PowerUpDNAReplication:      {"DNA Replication", 15, Legendary},
	PowerUpTheoryOfEverything:  {"Theory of Everything", 10, Legendary},
	PowerUpIntegratedCircuit:   {"Integrated Circuit", 20, Uncommon},
	PowerUpDefensiveFirewall:   {"Defensive Firewall", 20, Epic},
	PowerUpChemicalCatalyst:    {"Chemical Catalyst", 35, Epic},
	PowerUpGrantBoost:          {"Grant Boost", 45, Rare},
	PowerUpBankingOptimisation: {"Banking Optimisation", 30, Rare},
}

// PowerUpKinds lists every kind grouped by rarity tier.
var PowerUpKinds = []PowerUpKind{
	PowerUpQuantumSpeed, PowerUpNewtonianForce, PowerUpPhotosynthesis,
	PowerUpBinaryCode, PowerUpIntegratedCircuit, PowerUpBlackHole,
	PowerUpPlateTectonics, PowerUpHeisenberg, PowerUpGrantBoost, PowerUpBankingOptimisation,
	PowerUpEMC2, PowerUpDefensiveFirewall, PowerUpChemicalCatalyst,
	PowerUpDNAReplication, PowerUpTheoryOfEverything,
}

// Valid reports whether k is a known power-up.
func (k PowerUpKind) Valid() bool {
	_, ok := powerUps[k]
	return ok
}

// Name is the display name.
func (k PowerUpKind) Name() string {
	if info, ok := powerUps[k]; ok {
		return info.name
	}
	return string(k)
}

// Duration is how long the effect lasts, in match seconds.
func (k PowerUpKind) Duration() float64 {
	return powerUps[k].seconds
}

func (k PowerUpKind) Rarity() Rarity {
	return powerUps[k].rarity
}

// Cumulative upper bounds of the rarity roll: 40% common, 30% uncommon,
// 18% rare, 8% epic, 4% legendary.
var rarityThresholds = []struct {
	below  float64
	rarity Rarity
}{
	{0.40, Common},
	{0.70, Uncommon},
	{0.88, Rare},
	{0.96, Epic},
}

// RandomPowerUp draws a rarity tier, then a kind uniformly within the tier.
func RandomPowerUp(r Rand) PowerUpKind {
	roll := r.Float64()
	tier := Legendary
	for _, t := range rarityThresholds {
		if roll < t.below {
			tier = t.rarity
			break
		}
	}
	var pool []PowerUpKind
	for _, k := range PowerUpKinds {
		if powerUps[k].rarity == tier {
			pool = append(pool, k)
		}
	}
	return pool[r.IntN(len(pool))]
}
