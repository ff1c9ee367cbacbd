package neat

import (
	"math"
	"sort"
)

// StagnationResult reports whether a single species should be culled this
// generation.
type StagnationResult struct {
	Species    *Species
	IsStagnant bool
}

// UpdateStagnation recomputes every species' aggregate fitness (via the
// configured fitness function), advances LastImproved on any species that
// beat its own historical best, and flags species that have gone
// max_stagnation generations without improving for removal — except for the
// species_elitism fittest species, sorted ascending by fitness, which are
// always spared regardless of stagnant time.
func UpdateStagnation(species map[int]*Species, generation int, fitnessFunc string, maxStagnation, speciesElitism int) []StagnationResult {
	fn, ok := StatFunctions[fitnessFunc]
	if !ok {
		fn = Mean
	}

	ids := make([]int, 0, len(species))
	for id := range species {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		sp := species[id]
		prevBest := math.Inf(-1)
		if len(sp.FitnessHistory) > 0 {
			prevBest = MaxFloat(sp.FitnessHistory)
		}

		fitnesses := make([]float64, len(sp.Members))
		for i, m := range sp.Members {
			fitnesses[i] = m.Fitness
		}
		if len(fitnesses) == 0 {
			sp.Fitness = math.Inf(-1)
		} else {
			sp.Fitness = fn(fitnesses)
		}
		sp.FitnessHistory = append(sp.FitnessHistory, sp.Fitness)
		if sp.Fitness > prevBest {
			sp.LastImproved = generation
		}
	}

	sort.Slice(ids, func(i, j int) bool { return species[ids[i]].Fitness < species[ids[j]].Fitness })

	n := len(ids)
	results := make([]StagnationResult, n)
	for i, id := range ids {
		sp := species[id]
		isElite := (n - i) <= speciesElitism
		stagnantFor := generation - sp.LastImproved
		results[i] = StagnationResult{
			Species:    sp,
			IsStagnant: stagnantFor >= maxStagnation && !isElite,
		}
	}
	return results
}
