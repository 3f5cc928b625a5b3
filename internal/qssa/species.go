package qssa

// SpeciesName is the name/identifier of a tracked species.
type SpeciesName string

const (
	SpeciesA  SpeciesName = "A"
	SpeciesB  SpeciesName = "B"
	SpeciesAj SpeciesName = "Aj"
	SpeciesBj SpeciesName = "Bj"
	SpeciesC  SpeciesName = "C"
	SpeciesCj SpeciesName = "Cj"
	SpeciesP  SpeciesName = "P"
	SpeciesD  SpeciesName = "D"
)

// Positions of each species inside a Counts vector. The order follows the
// columns of the stoichiometry table.
const (
	IdxA = iota
	IdxB
	IdxAj
	IdxBj
	IdxC
	IdxCj
	IdxP
	IdxD

	NumSpecies
)

// Species represents a tracked population in the reaction network.
type Species struct {
	Name        SpeciesName
	Description string
	Index       int
}

// Counts holds the particle count of every species at one instant, indexed
// by the Idx* constants. Counts are integral in concept but kept as float64
// because the propensity law raises them to real powers.
type Counts [NumSpecies]float64

// Get returns the count of the named species. Unknown names return 0.
func (c Counts) Get(name SpeciesName) float64 {
	for i, sp := range standardSpecies {
		if sp.Name == name {
			return c[i]
		}
	}
	return 0
}

var standardSpecies = [NumSpecies]Species{
	{Name: SpeciesA, Description: "reactant A", Index: IdxA},
	{Name: SpeciesB, Description: "reactant B", Index: IdxB},
	{Name: SpeciesAj, Description: "intermediate Aj", Index: IdxAj},
	{Name: SpeciesBj, Description: "intermediate Bj", Index: IdxBj},
	{Name: SpeciesC, Description: "bulk species C", Index: IdxC},
	{Name: SpeciesCj, Description: "intermediate Cj", Index: IdxCj},
	{Name: SpeciesP, Description: "product P", Index: IdxP},
	{Name: SpeciesD, Description: "terminal product D", Index: IdxD},
}
