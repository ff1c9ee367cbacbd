package neat

import "math/rand"

// NodeRole classifies a node id by how it was introduced into a genome. It
// is derived from the fixed ranges recorded at genome creation rather than
// inferred from in/out-degree, so an output node with no incoming edges yet
// is still unambiguously an output.
type NodeRole int

const (
	RoleInput NodeRole = iota
	RoleBias
	RoleOutput
	RoleHidden
)

func (r NodeRole) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleBias:
		return "bias"
	case RoleOutput:
		return "output"
	case RoleHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// ConnectionGene is the atomic unit of heredity: a directed, weighted edge
// between two nodes, tagged with the historical marker that lets crossover
// recognize independently-mutated occurrences of the same structural edge.
type ConnectionGene struct {
	Innovation uint64
	InNode     int
	OutNode    int
	Weight     float64
	Enabled    bool
}

// Key returns the (inNode, outNode) pair identifying this gene's edge,
// independent of its innovation number.
func (g ConnectionGene) Key() ConnectionKey {
	return ConnectionKey{InNode: g.InNode, OutNode: g.OutNode}
}

// randomWeight draws a fresh connection weight, used both at genome
// creation and by add-connection mutations.
func randomWeight(rng *rand.Rand) float64 {
	return rng.NormFloat64() * 2.0
}

// perturbOrReplace implements the two-armed weight mutation applied to
// individual connection genes: a small perturbation most of the time, an
// outright replacement otherwise.
func perturbOrReplace(rng *rand.Rand, weight, perturbRate, perturbPower float64) float64 {
	if rng.Float64() < perturbRate {
		return weight + rng.NormFloat64()*perturbPower
	}
	return randomWeight(rng)
}
