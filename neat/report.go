package neat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// runReport is the YAML-serializable summary of a completed or in-progress
// run, written alongside its binary checkpoint for humans to read without
// decoding gob.
type runReport struct {
	RunID      string      `yaml:"run_id"`
	Generation int         `yaml:"generation"`
	BestEver   *bestGenome `yaml:"best_genome,omitempty"`
	History    []Statistics `yaml:"history"`
}

type bestGenome struct {
	Key     int     `yaml:"key"`
	Fitness float64 `yaml:"fitness"`
	Genes   int     `yaml:"gene_count"`
	Nodes   int     `yaml:"node_count"`
}

// WriteReport renders the run's history and best genome so far to path as
// YAML.
func (r *Run) WriteReport(path string) error {
	report := runReport{
		RunID:      r.ID.String(),
		Generation: r.Generation,
		History:    r.History,
	}
	if r.BestEver != nil {
		report.BestEver = &bestGenome{
			Key:     r.BestEver.Key,
			Fitness: r.BestEver.Fitness,
			Genes:   len(r.BestEver.Genes),
			Nodes:   len(r.BestEver.Nodes),
		}
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("neat: failed to marshal run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("neat: failed to write run report %q: %w", path, err)
	}
	return nil
}
