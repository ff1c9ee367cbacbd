package neat

// TerminationFunc reports whether a run should stop after the generation
// just completed, given the population sorted descending by fitness and the
// generation index. It is consulted in addition to max_generations, never
// instead of it.
type TerminationFunc func(sortedPopulation []*Genome, generation int) bool

// Problem packages everything a run needs to know about what it is
// evolving: how to score a genome's phenotype, and when to stop trying.
type Problem struct {
	Name        string
	FitnessFunc FitnessFunc
	Termination TerminationFunc
}

// FitnessThreshold returns a TerminationFunc that stops as soon as the
// fittest genome in the (descending-sorted) population reaches threshold.
func FitnessThreshold(threshold float64) TerminationFunc {
	return func(sortedPopulation []*Genome, _ int) bool {
		return len(sortedPopulation) > 0 && sortedPopulation[0].Fitness >= threshold
	}
}
