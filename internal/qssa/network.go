package qssa

// Network defines the structure of the simulated reaction system: the
// tracked species and the reaction channels that move particles between
// them.
type Network struct {
	Name      string
	species   []Species
	reactions []Reaction
}

// StandardNetwork returns the six-channel network the engine simulates.
func StandardNetwork() *Network {
	n := &Network{Name: "tsallis-six-channel"}
	n.species = append(n.species, standardSpecies[:]...)
	n.reactions = append(n.reactions, standardReactions[:]...)
	return n
}

// Species retrieves a species definition by name.
// Returns the species and a boolean indicating if it was found.
func (n *Network) Species(name SpeciesName) (Species, bool) {
	for _, sp := range n.species {
		if sp.Name == name {
			return sp, true
		}
	}
	return Species{}, false
}

// AllSpecies returns the species in Counts order.
func (n *Network) AllSpecies() []Species {
	out := make([]Species, len(n.species))
	copy(out, n.species)
	return out
}

// Reactions returns all reaction channels in index order.
func (n *Network) Reactions() []Reaction {
	out := make([]Reaction, len(n.reactions))
	copy(out, n.reactions)
	return out
}

// Reaction returns the channel with the given index.
func (n *Network) Reaction(k int) (Reaction, bool) {
	if k < 0 || k >= len(n.reactions) {
		return Reaction{}, false
	}
	return n.reactions[k], true
}
