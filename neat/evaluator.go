package neat

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/riftwarden/neat-go/neat/nn"
)

// FitnessFunc computes a genome's fitness given its built phenotype
// network. A genome whose phenotype fails to build (e.g. a cycle slipped
// through) never reaches this function; its fitness is instead set to
// negative infinity by the Evaluator.
type FitnessFunc func(genome *Genome, network *nn.Network) float64

// Evaluator maps a FitnessFunc over one generation's genomes, writing each
// genome's Fitness field, and reports how many genomes failed to build a
// phenotype.
type Evaluator interface {
	Evaluate(ctx context.Context, genomes []*Genome, activation nn.ActivationFunc, fn FitnessFunc) (failures int, err error)
}

// buildPhenotype converts a genome's evolved structure into the flat
// node/edge description nn.Build expects, including only enabled genes.
// Nodes are listed in ascending id order and edges in ascending innovation
// order, so inputs and outputs map to ascending node ids and every build of
// the same genome sums its edges in the same order.
func buildPhenotype(g *Genome, activation nn.ActivationFunc) (*nn.Network, error) {
	nodes := make([]nn.NodeSpec, 0, len(g.Nodes))
	for id, role := range g.Nodes {
		nodes = append(nodes, nn.NodeSpec{ID: id, Role: nn.Role(role)})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	edges := make([]nn.EdgeSpec, 0, len(g.Genes))
	for _, gene := range g.SortedGenes() {
		if !gene.Enabled {
			continue
		}
		edges = append(edges, nn.EdgeSpec{From: gene.InNode, To: gene.OutNode, Weight: gene.Weight})
	}
	return nn.Build(nodes, edges, activation)
}

// SerialEvaluator runs the fitness function on the calling goroutine, one
// genome at a time. It is the deterministic choice: evaluation order never
// varies and no synchronization is needed.
type SerialEvaluator struct{}

func (SerialEvaluator) Evaluate(ctx context.Context, genomes []*Genome, activation nn.ActivationFunc, fn FitnessFunc) (int, error) {
	failures := 0
	for _, g := range genomes {
		select {
		case <-ctx.Done():
			return failures, ctx.Err()
		default:
		}
		net, err := buildPhenotype(g, activation)
		if err != nil {
			g.Fitness = math.Inf(-1)
			failures++
			continue
		}
		g.Fitness = fn(g, net)
	}
	return failures, nil
}

// PoolEvaluator maps the fitness function over the generation with bounded
// worker concurrency. Because the fitness function itself may be
// nondeterministic under concurrent execution (evaluation order is not
// fixed), it trades determinism for throughput on expensive fitness
// functions; SerialEvaluator remains the reproducible default.
type PoolEvaluator struct {
	// Workers caps concurrent evaluations; 0 means GOMAXPROCS.
	Workers int
}

func (e PoolEvaluator) Evaluate(ctx context.Context, genomes []*Genome, activation nn.ActivationFunc, fn FitnessFunc) (int, error) {
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var mu sync.Mutex
	failures := 0

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError()
	for _, g := range genomes {
		g := g
		p.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			net, err := buildPhenotype(g, activation)
			if err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				g.Fitness = math.Inf(-1)
				return nil
			}
			g.Fitness = fn(g, net)
			return nil
		})
	}
	err := p.Wait()
	return failures, err
}
