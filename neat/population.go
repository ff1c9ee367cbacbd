package neat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/riftwarden/neat-go/neat/nn"
)

// ErrEmptyPopulation is returned by a run's driver when evaluation or
// reproduction leaves zero survivors. It is always fatal: there is nothing
// left to speciate or breed from.
var ErrEmptyPopulation = errors.New("neat: population is empty")

// Statistics is a per-generation snapshot of a run's progress, kept across
// the whole run and rendered to a run report.
type Statistics struct {
	Generation        int           `yaml:"generation"`
	PopulationSize    int           `yaml:"population_size"`
	SpeciesCount      int           `yaml:"species_count"`
	BestFitness       float64       `yaml:"best_fitness"`
	MeanFitness       float64       `yaml:"mean_fitness"`
	FitnessStdev      float64       `yaml:"fitness_stdev"`
	BestGenomeKey     int           `yaml:"best_genome_key"`
	EvaluatorFailures int           `yaml:"evaluator_failures"`
	Duration          time.Duration `yaml:"duration"`
}

// Run owns one evolutionary run's mutable state: the current population,
// species set, reproduction and innovation bookkeeping, and the RNG every
// mutation/crossover/selection draw is threaded through.
type Run struct {
	ID uuid.UUID

	Options    *Options
	Innovation *InnovationRegistry
	Species    *SpeciesSet
	Repro      *Reproduction
	Evaluator  Evaluator
	Activation nn.ActivationFunc

	rng       *rand.Rand
	rngSource *splitMix64Source

	Population []*Genome
	Generation int
	BestEver   *Genome

	History []Statistics

	Logger *log.Logger
}

// NewRun constructs a fresh run from options, seeding its RNG either from
// options.Seed or, if nil, from the current time in nanoseconds — every
// source of randomness in a run flows through this single generator so a
// fixed seed reproduces byte-identical evolution.
func NewRun(o *Options, logger *log.Logger) (*Run, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	activation, err := GetActivation(o.ActivationName)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	seed := time.Now().UnixNano()
	if o.Seed != nil {
		seed = *o.Seed
	}
	src := newSplitMix64Source(seed)
	rng := rand.New(src)

	reg := NewInnovationRegistry(o.firstHiddenNodeID())
	repro := NewReproduction()
	pop := repro.CreateInitialPopulation(reg, o, rng)

	evaluator := Evaluator(SerialEvaluator{})
	if o.EvaluatorWorkers != 0 {
		evaluator = PoolEvaluator{Workers: o.EvaluatorWorkers}
	}

	return &Run{
		ID:         uuid.New(),
		Options:    o,
		Innovation: reg,
		Species:    NewSpeciesSet(),
		Repro:      repro,
		Evaluator:  evaluator,
		Activation: activation,
		rng:        rng,
		rngSource:  src,
		Population: pop,
		Logger:     logger,
	}, nil
}

// Evolve runs generations against problem until its termination predicate
// (if any) is satisfied, max_generations is exhausted, or ctx is cancelled,
// whichever comes first. It returns the best genome ever seen.
func (r *Run) Evolve(ctx context.Context, problem Problem) (*Genome, error) {
	for gen := 0; gen < r.Options.MaxGenerations; gen++ {
		select {
		case <-ctx.Done():
			return r.BestEver, ctx.Err()
		default:
		}

		winner, err := r.step(ctx, problem)
		if err != nil {
			return r.BestEver, err
		}
		if winner != nil {
			return winner, nil
		}
	}
	return r.BestEver, nil
}

// step runs exactly one generation: evaluate, sort descending by fitness and
// record the best, check termination, speciate, cull stagnant species, and
// reproduce.
func (r *Run) step(ctx context.Context, problem Problem) (*Genome, error) {
	r.Generation++
	start := time.Now()

	failures, err := r.Evaluator.Evaluate(ctx, r.Population, r.Activation, problem.FitnessFunc)
	if err != nil {
		return nil, fmt.Errorf("neat: generation %d evaluation failed: %w", r.Generation, err)
	}
	if failures > 0 {
		r.Logger.Printf("generation %d: %d genomes failed to build a phenotype", r.Generation, failures)
	}
	if len(r.Population) == 0 {
		return nil, fmt.Errorf("generation %d: %w", r.Generation, ErrEmptyPopulation)
	}

	sort.Slice(r.Population, func(i, j int) bool { return r.Population[i].Fitness > r.Population[j].Fitness })
	best := r.Population[0]
	if r.BestEver == nil || best.Fitness > r.BestEver.Fitness {
		r.BestEver = best.Clone(best.Key)
		r.BestEver.Fitness = best.Fitness
	}

	stats := Statistics{
		Generation:        r.Generation,
		PopulationSize:    len(r.Population),
		SpeciesCount:      len(r.Species.Species),
		BestFitness:       best.Fitness,
		BestGenomeKey:     best.Key,
		EvaluatorFailures: failures,
		Duration:          time.Since(start),
	}
	fitnesses := make([]float64, len(r.Population))
	for i, g := range r.Population {
		fitnesses[i] = g.Fitness
	}
	stats.MeanFitness = Mean(fitnesses)
	stats.FitnessStdev = Stdev(fitnesses)
	r.History = append(r.History, stats)
	r.Logger.Printf("generation %d: species=%d best=%.4f mean=%.4f", r.Generation, stats.SpeciesCount, stats.BestFitness, stats.MeanFitness)

	if problem.Termination != nil && problem.Termination(r.Population, r.Generation) {
		return r.BestEver, nil
	}
	if r.Generation >= r.Options.MaxGenerations {
		return r.BestEver, nil
	}

	r.Species.Speciate(r.rng, r.Population, r.Options.CompatibilityThreshold, r.Options.C1ExcessCoefficient, r.Options.C2DisjointCoefficient, r.Options.C3WeightCoefficient, r.Generation)

	results := UpdateStagnation(r.Species.Species, r.Generation, r.Options.SpeciesFitnessFunc, r.Options.MaxStagnation, r.Options.SpeciesElitism)
	stagnant := make([]int, 0)
	for _, res := range results {
		if res.IsStagnant {
			stagnant = append(stagnant, res.Species.ID)
		}
	}
	r.Species.Remove(stagnant...)

	next := r.Repro.Reproduce(r.rng, r.Innovation, r.Species, r.Options)
	if len(next) == 0 {
		return nil, fmt.Errorf("generation %d: %w", r.Generation, ErrEmptyPopulation)
	}
	r.Population = next
	return nil, nil
}
