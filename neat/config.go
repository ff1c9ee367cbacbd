package neat

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"
)

// MutationRates groups the four structural/parametric mutation operator
// probabilities that Genome.Mutate consults on every call.
type MutationRates struct {
	AddNodeRate          float64 `ini:"add_node_rate" validate:"gte=0,lte=1"`
	AddConnectionRate    float64 `ini:"add_connection_rate" validate:"gte=0,lte=1"`
	WeightMutationRate   float64 `ini:"weight_mutation_rate" validate:"gte=0,lte=1"`
	ToggleConnectionRate float64 `ini:"toggle_connection_rate" validate:"gte=0,lte=1"`
}

// Options holds every tunable parameter of a run: genome shape, speciation,
// reproduction, and mutation. DefaultOptions returns the canonical defaults;
// LoadOptions overlays an ini file on top of them.
type Options struct {
	PopulationSize int `validate:"gt=0"`
	MaxGenerations int `validate:"gt=0"`

	Inputs  int `validate:"gt=0"`
	Outputs int `validate:"gt=0"`
	Bias    bool

	CompatibilityThreshold float64 `validate:"gt=0"`
	C1ExcessCoefficient    float64 `validate:"gte=0"`
	C2DisjointCoefficient  float64 `validate:"gte=0"`
	C3WeightCoefficient    float64 `validate:"gte=0"`

	Elitism       int     `validate:"gte=0"`
	CrossoverRate float64 `validate:"gte=0,lte=1"`
	MinSpeciesSize int    `validate:"gt=0"`

	MutationRates     MutationRates
	PerturbationRate  float64 `validate:"gte=0,lte=1"`
	PerturbationPower float64 `validate:"gte=0"`
	FeedForwardOnly   bool

	CanonicalEnabledInheritance bool

	MaxStagnation      int    `validate:"gt=0"`
	SpeciesElitism     int    `validate:"gte=0"`
	SpeciesFitnessFunc string `validate:"oneof=mean stdev sum max min median"`

	ActivationName string

	EvaluatorWorkers int `validate:"gte=0"`

	Seed *int64
}

// DefaultOptions returns the canonical NEAT parameter set used when a
// caller supplies no config file.
func DefaultOptions() *Options {
	return &Options{
		PopulationSize:         150,
		MaxGenerations:         500,
		Inputs:                 3,
		Outputs:                1,
		Bias:                   true,
		CompatibilityThreshold: 3.0,
		C1ExcessCoefficient:    1.0,
		C2DisjointCoefficient:  1.0,
		C3WeightCoefficient:    0.4,
		Elitism:                1,
		CrossoverRate:          0.7,
		MinSpeciesSize:         2,
		MutationRates: MutationRates{
			AddNodeRate:          0.03,
			AddConnectionRate:    0.05,
			WeightMutationRate:   0.8,
			ToggleConnectionRate: 0.01,
		},
		PerturbationRate:            0.9,
		PerturbationPower:           0.5,
		FeedForwardOnly:             true,
		CanonicalEnabledInheritance: true,
		MaxStagnation:               15,
		SpeciesElitism:              1,
		SpeciesFitnessFunc:          "mean",
		ActivationName:              "sigmoid",
		EvaluatorWorkers:            0,
	}
}

// firstHiddenNodeID returns the smallest node id an InnovationRegistry may
// hand out for this run's genome shape, one past the fixed input/bias/output
// range.
func (o *Options) firstHiddenNodeID() int {
	n := o.Inputs + o.Outputs
	if o.Bias {
		n++
	}
	return n
}

// Validate checks every struct-tag constraint plus the handful of
// cross-field invariants a tag can't express.
func (o *Options) Validate() error {
	v := validator.New()
	if err := v.Struct(o); err != nil {
		return fmt.Errorf("neat: invalid options: %w", err)
	}
	if o.Elitism > o.PopulationSize {
		return fmt.Errorf("neat: elitism (%d) cannot exceed population_size (%d)", o.Elitism, o.PopulationSize)
	}
	if o.MinSpeciesSize > o.PopulationSize {
		return fmt.Errorf("neat: min_species_size (%d) cannot exceed population_size (%d)", o.MinSpeciesSize, o.PopulationSize)
	}
	if _, err := GetActivation(o.ActivationName); err != nil {
		return fmt.Errorf("neat: invalid options: %w", err)
	}
	return nil
}

type iniNeatSection struct {
	PopSize        int `ini:"pop_size"`
	MaxGenerations int `ini:"max_generations"`
}

type iniGenomeSection struct {
	NumInputs                   int     `ini:"num_inputs"`
	NumOutputs                  int     `ini:"num_outputs"`
	Bias                        bool    `ini:"bias"`
	FeedForward                 bool    `ini:"feed_forward"`
	Activation                  string  `ini:"activation"`
	C1ExcessCoefficient         float64 `ini:"c1_excess_coefficient"`
	C2DisjointCoefficient       float64 `ini:"c2_disjoint_coefficient"`
	C3WeightCoefficient         float64 `ini:"c3_weight_coefficient"`
	AddNodeRate                 float64 `ini:"add_node_rate"`
	AddConnectionRate           float64 `ini:"add_connection_rate"`
	WeightMutationRate          float64 `ini:"weight_mutation_rate"`
	ToggleConnectionRate        float64 `ini:"toggle_connection_rate"`
	PerturbationRate            float64 `ini:"perturbation_rate"`
	PerturbationPower           float64 `ini:"perturbation_power"`
	CanonicalEnabledInheritance bool    `ini:"canonical_enabled_inheritance"`
}

type iniReproductionSection struct {
	Elitism        int     `ini:"elitism"`
	CrossoverRate  float64 `ini:"crossover_rate"`
	MinSpeciesSize int     `ini:"min_species_size"`
}

type iniSpeciesSetSection struct {
	CompatibilityThreshold float64 `ini:"compatibility_threshold"`
}

type iniStagnationSection struct {
	MaxStagnation      int    `ini:"max_stagnation"`
	SpeciesElitism     int    `ini:"species_elitism"`
	SpeciesFitnessFunc string `ini:"species_fitness_func"`
}

type iniEvaluatorSection struct {
	Workers int `ini:"workers"`
}

// LoadOptions reads an ini file laid out with [NEAT], [DefaultGenome],
// [DefaultReproduction], [DefaultSpeciesSet], [DefaultStagnation], and
// [Evaluator] sections, overlaying whatever keys it finds on top of
// DefaultOptions, then validates the result.
func LoadOptions(path string) (*Options, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true, UnescapeValueCommentSymbols: true}, path)
	if err != nil {
		return nil, fmt.Errorf("neat: failed to load config file %q: %w", path, err)
	}

	o := DefaultOptions()

	neatSec := iniNeatSection{PopSize: o.PopulationSize, MaxGenerations: o.MaxGenerations}
	if err := cfg.Section("NEAT").MapTo(&neatSec); err != nil {
		return nil, fmt.Errorf("neat: failed to map [NEAT] section: %w", err)
	}
	o.PopulationSize = neatSec.PopSize
	o.MaxGenerations = neatSec.MaxGenerations

	genomeSec := iniGenomeSection{
		NumInputs:                   o.Inputs,
		NumOutputs:                  o.Outputs,
		Bias:                        o.Bias,
		FeedForward:                 o.FeedForwardOnly,
		Activation:                  o.ActivationName,
		C1ExcessCoefficient:         o.C1ExcessCoefficient,
		C2DisjointCoefficient:       o.C2DisjointCoefficient,
		C3WeightCoefficient:         o.C3WeightCoefficient,
		AddNodeRate:                 o.MutationRates.AddNodeRate,
		AddConnectionRate:           o.MutationRates.AddConnectionRate,
		WeightMutationRate:          o.MutationRates.WeightMutationRate,
		ToggleConnectionRate:        o.MutationRates.ToggleConnectionRate,
		PerturbationRate:            o.PerturbationRate,
		PerturbationPower:           o.PerturbationPower,
		CanonicalEnabledInheritance: o.CanonicalEnabledInheritance,
	}
	if err := cfg.Section("DefaultGenome").MapTo(&genomeSec); err != nil {
		return nil, fmt.Errorf("neat: failed to map [DefaultGenome] section: %w", err)
	}
	o.Inputs = genomeSec.NumInputs
	o.Outputs = genomeSec.NumOutputs
	o.Bias = genomeSec.Bias
	o.FeedForwardOnly = genomeSec.FeedForward
	o.ActivationName = cleanIniString(genomeSec.Activation)
	o.C1ExcessCoefficient = genomeSec.C1ExcessCoefficient
	o.C2DisjointCoefficient = genomeSec.C2DisjointCoefficient
	o.C3WeightCoefficient = genomeSec.C3WeightCoefficient
	o.MutationRates.AddNodeRate = genomeSec.AddNodeRate
	o.MutationRates.AddConnectionRate = genomeSec.AddConnectionRate
	o.MutationRates.WeightMutationRate = genomeSec.WeightMutationRate
	o.MutationRates.ToggleConnectionRate = genomeSec.ToggleConnectionRate
	o.PerturbationRate = genomeSec.PerturbationRate
	o.PerturbationPower = genomeSec.PerturbationPower
	o.CanonicalEnabledInheritance = genomeSec.CanonicalEnabledInheritance

	reproSec := iniReproductionSection{Elitism: o.Elitism, CrossoverRate: o.CrossoverRate, MinSpeciesSize: o.MinSpeciesSize}
	if err := cfg.Section("DefaultReproduction").MapTo(&reproSec); err != nil {
		return nil, fmt.Errorf("neat: failed to map [DefaultReproduction] section: %w", err)
	}
	o.Elitism = reproSec.Elitism
	o.CrossoverRate = reproSec.CrossoverRate
	o.MinSpeciesSize = reproSec.MinSpeciesSize

	speciesSec := iniSpeciesSetSection{CompatibilityThreshold: o.CompatibilityThreshold}
	if err := cfg.Section("DefaultSpeciesSet").MapTo(&speciesSec); err != nil {
		return nil, fmt.Errorf("neat: failed to map [DefaultSpeciesSet] section: %w", err)
	}
	o.CompatibilityThreshold = speciesSec.CompatibilityThreshold

	stagSec := iniStagnationSection{MaxStagnation: o.MaxStagnation, SpeciesElitism: o.SpeciesElitism, SpeciesFitnessFunc: o.SpeciesFitnessFunc}
	if err := cfg.Section("DefaultStagnation").MapTo(&stagSec); err != nil {
		return nil, fmt.Errorf("neat: failed to map [DefaultStagnation] section: %w", err)
	}
	o.MaxStagnation = stagSec.MaxStagnation
	o.SpeciesElitism = stagSec.SpeciesElitism
	o.SpeciesFitnessFunc = cleanIniString(stagSec.SpeciesFitnessFunc)

	evalSec := iniEvaluatorSection{Workers: o.EvaluatorWorkers}
	if err := cfg.Section("Evaluator").MapTo(&evalSec); err != nil {
		return nil, fmt.Errorf("neat: failed to map [Evaluator] section: %w", err)
	}
	o.EvaluatorWorkers = evalSec.Workers

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// cleanIniString trims whitespace and a trailing inline comment ini.v1
// sometimes leaves attached to bare string values.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, ";#"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
