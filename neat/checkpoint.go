package neat

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/google/uuid"
)

// checkpointData is the full serializable state of a Run: enough to resume
// evolution byte-for-byte, including the innovation registry and the RNG
// state every mutation/crossover/selection draw depends on.
type checkpointData struct {
	RunID       uuid.UUID
	Options     *Options
	Population  []*Genome
	Species     map[int]*Species
	NextSpeciesID int
	NextGeneID  int
	Generation  int
	BestEver    *Genome
	History     []Statistics
	Innovation  InnovationSnapshot
	RNGState    uint64
}

// SaveCheckpoint writes the run's full state to path, gzip-compressed gob.
func (r *Run) SaveCheckpoint(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("neat: failed to create checkpoint file %q: %w", path, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	defer gz.Close()

	data := checkpointData{
		RunID:      r.ID,
		Options:    r.Options,
		Population: r.Population,
		Species:    r.Species.Species,
		NextSpeciesID: r.Species.nextID,
		NextGeneID: r.Repro.NextGenomeKey,
		Generation: r.Generation,
		BestEver:   r.BestEver,
		History:    r.History,
		Innovation: r.Innovation.Snapshot(),
		RNGState:   r.rngSource.state,
	}

	if err := gob.NewEncoder(gz).Encode(&data); err != nil {
		return fmt.Errorf("neat: failed to encode checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reconstructs a Run from a checkpoint written by
// SaveCheckpoint. Neither the Evaluator nor the Logger is serializable: the
// Evaluator is rebuilt from the restored Options, and the Logger is the given
// logger, or log.Default() when it is nil.
func LoadCheckpoint(path string, logger *log.Logger) (*Run, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("neat: failed to open checkpoint file %q: %w", path, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("neat: failed to open checkpoint gzip stream: %w", err)
	}
	defer gz.Close()

	var data checkpointData
	if err := gob.NewDecoder(gz).Decode(&data); err != nil {
		return nil, fmt.Errorf("neat: failed to decode checkpoint: %w", err)
	}

	if err := data.Options.Validate(); err != nil {
		return nil, fmt.Errorf("neat: checkpoint has invalid options: %w", err)
	}
	activation, err := GetActivation(data.Options.ActivationName)
	if err != nil {
		return nil, err
	}

	reg := NewInnovationRegistry(data.Options.firstHiddenNodeID())
	reg.Restore(data.Innovation)

	src := &splitMix64Source{state: data.RNGState}
	rng := rand.New(src)

	speciesSet := &SpeciesSet{Species: data.Species, nextID: data.NextSpeciesID}
	for id := range speciesSet.Species {
		if id >= speciesSet.nextID {
			speciesSet.nextID = id + 1
		}
	}

	evaluator := Evaluator(SerialEvaluator{})
	if data.Options.EvaluatorWorkers != 0 {
		evaluator = PoolEvaluator{Workers: data.Options.EvaluatorWorkers}
	}
	if logger == nil {
		logger = log.Default()
	}

	r := &Run{
		ID:         data.RunID,
		Options:    data.Options,
		Innovation: reg,
		Species:    speciesSet,
		Repro:      &Reproduction{NextGenomeKey: data.NextGeneID},
		Evaluator:  evaluator,
		Activation: activation,
		rng:        rng,
		rngSource:  src,
		Population: data.Population,
		Generation: data.Generation,
		BestEver:   data.BestEver,
		History:    data.History,
		Logger:     logger,
	}
	return r, nil
}
