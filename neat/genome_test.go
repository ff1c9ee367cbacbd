package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinimalGenomeIsFullyConnected(t *testing.T) {
	reg := NewInnovationRegistry(4)
	rng := rand.New(rand.NewSource(1))

	g := NewMinimalGenome(1, reg, 2, 1, true, rng)

	assert.Len(t, g.Nodes, 4, "2 inputs + 1 bias + 1 output")
	assert.Equal(t, RoleInput, g.Nodes[0])
	assert.Equal(t, RoleInput, g.Nodes[1])
	assert.Equal(t, RoleBias, g.Nodes[2])
	assert.Equal(t, RoleOutput, g.Nodes[3])

	assert.Len(t, g.Genes, 3, "every input(+bias) source must connect to the single output")
	for _, gene := range g.Genes {
		assert.True(t, gene.Enabled)
		assert.Equal(t, 3, gene.OutNode)
	}
}

func TestGenomeCloneIsIndependent(t *testing.T) {
	reg := NewInnovationRegistry(4)
	rng := rand.New(rand.NewSource(1))
	g := NewMinimalGenome(1, reg, 2, 1, true, rng)

	clone := g.Clone(2)
	assert.Equal(t, 2, clone.Key)
	assert.Equal(t, len(g.Genes), len(clone.Genes))

	for innov, gene := range clone.Genes {
		gene.Weight = 999.0
		assert.NotEqual(t, g.Genes[innov].Weight, 999.0, "mutating a clone's gene must not affect the original")
	}
}

func TestDistanceMatchesWorkedExample(t *testing.T) {
	a := NewGenome(1, 1, 1, false)
	a.addGene(ConnectionGene{Innovation: 1, InNode: 0, OutNode: 1, Weight: 1.0, Enabled: true})
	a.addGene(ConnectionGene{Innovation: 2, InNode: 0, OutNode: 2, Weight: 1.0, Enabled: true})

	b := NewGenome(2, 1, 1, false)
	b.addGene(ConnectionGene{Innovation: 1, InNode: 0, OutNode: 1, Weight: 1.5, Enabled: true})
	b.addGene(ConnectionGene{Innovation: 3, InNode: 0, OutNode: 3, Weight: 1.0, Enabled: true})

	dist := a.Distance(b, 1.0, 1.0, 0.4)
	assert.InDelta(t, 1.2, dist, 1e-9)
}

func TestDistanceIsZeroForIdenticalGenomes(t *testing.T) {
	reg := NewInnovationRegistry(4)
	rng := rand.New(rand.NewSource(1))
	a := NewMinimalGenome(1, reg, 2, 1, true, rng)
	b := a.Clone(2)

	assert.Zero(t, a.Distance(b, 1.0, 1.0, 0.4))
}

func TestCrossoverInheritsSharedAndExcessGenes(t *testing.T) {
	hi := NewGenome(1, 1, 1, false)
	hi.addGene(ConnectionGene{Innovation: 1, InNode: 0, OutNode: 1, Weight: 1.0, Enabled: true})
	hi.addGene(ConnectionGene{Innovation: 2, InNode: 0, OutNode: 2, Weight: 1.0, Enabled: true})
	hi.Nodes[0] = RoleInput
	hi.Nodes[1] = RoleOutput
	hi.Nodes[2] = RoleHidden

	lo := NewGenome(2, 1, 1, false)
	lo.addGene(ConnectionGene{Innovation: 1, InNode: 0, OutNode: 1, Weight: 2.0, Enabled: true})
	lo.Nodes[0] = RoleInput
	lo.Nodes[1] = RoleOutput

	rng := rand.New(rand.NewSource(42))
	child := hi.Crossover(rng, lo, 3, true)

	require.Contains(t, child.Genes, uint64(1))
	require.Contains(t, child.Genes, uint64(2), "excess gene unique to the fitter parent must be inherited outright")
	assert.Equal(t, 3, child.Key)
}

func TestCrossoverCanonicalEnableInheritance(t *testing.T) {
	hi := NewGenome(1, 1, 1, false)
	hi.addGene(ConnectionGene{Innovation: 1, InNode: 0, OutNode: 1, Weight: 1.0, Enabled: false})
	lo := NewGenome(2, 1, 1, false)
	lo.addGene(ConnectionGene{Innovation: 1, InNode: 0, OutNode: 1, Weight: 2.0, Enabled: true})

	disabledCount := 0
	trials := 2000
	for i := 0; i < trials; i++ {
		rng := rand.New(rand.NewSource(int64(i)))
		child := hi.Crossover(rng, lo, 3, true)
		if !child.Genes[1].Enabled {
			disabledCount++
		}
	}
	ratio := float64(disabledCount) / float64(trials)
	assert.InDelta(t, 0.75, ratio, 0.05, "canonical enable-inheritance should re-disable roughly 75%% of the time when either parent's copy is disabled")
}

func TestMutateAddNodeSplitsAnEnabledGene(t *testing.T) {
	reg := NewInnovationRegistry(4)
	rng := rand.New(rand.NewSource(1))
	g := NewMinimalGenome(1, reg, 2, 1, true, rng)
	before := len(g.Genes)

	g.mutateAddNode(reg, rng)

	assert.Len(t, g.Genes, before+2)
	disabled := 0
	for _, gene := range g.Genes {
		if !gene.Enabled {
			disabled++
		}
	}
	assert.Equal(t, 1, disabled, "exactly the split gene should be disabled")
}

func TestMutateAddNodeNoopWithoutEnabledGenes(t *testing.T) {
	g := NewGenome(1, 1, 1, false)
	g.Nodes[0] = RoleInput
	g.Nodes[1] = RoleOutput
	reg := NewInnovationRegistry(2)
	rng := rand.New(rand.NewSource(1))

	g.mutateAddNode(reg, rng)
	assert.Empty(t, g.Genes)
}

func TestMutateAddConnectionAvoidsCyclesInFeedForwardMode(t *testing.T) {
	reg := NewInnovationRegistry(4)
	rng := rand.New(rand.NewSource(7))
	g := NewMinimalGenome(1, reg, 2, 1, true, rng)
	g.mutateAddNode(reg, rng)

	for i := 0; i < 50; i++ {
		g.mutateAddConnection(reg, rng, true)
	}
	for _, gene := range g.Genes {
		if !gene.Enabled {
			continue
		}
		assert.False(t, g.createsCycle(gene.InNode, gene.OutNode), "no enabled edge may close a cycle: its out-node must not reach its in-node")
	}
}

func TestCreatesCycleDetectsSelfLoop(t *testing.T) {
	g := NewGenome(1, 1, 1, false)
	assert.True(t, g.createsCycle(5, 5))
}

func TestCreatesCycleDetectsExistingPath(t *testing.T) {
	g := NewGenome(1, 1, 1, false)
	g.addGene(ConnectionGene{Innovation: 1, InNode: 0, OutNode: 1, Weight: 1.0, Enabled: true})
	g.addGene(ConnectionGene{Innovation: 2, InNode: 1, OutNode: 2, Weight: 1.0, Enabled: true})

	assert.True(t, g.createsCycle(2, 0), "2 can already reach 0 through 1, so 2->0 would close a cycle")
	assert.False(t, g.createsCycle(0, 2))
}

func TestMutateWeightsChangesEveryGene(t *testing.T) {
	reg := NewInnovationRegistry(4)
	rng := rand.New(rand.NewSource(1))
	g := NewMinimalGenome(1, reg, 2, 1, true, rng)
	original := make(map[uint64]float64, len(g.Genes))
	for innov, gene := range g.Genes {
		original[innov] = gene.Weight
	}

	g.mutateWeights(rng, 0.0, 0.5) // perturbRate 0 forces full replacement every time

	for innov, gene := range g.Genes {
		assert.NotEqual(t, original[innov], gene.Weight)
	}
}

func TestMutateToggleFlipsOneGene(t *testing.T) {
	reg := NewInnovationRegistry(4)
	rng := rand.New(rand.NewSource(1))
	g := NewMinimalGenome(1, reg, 2, 1, true, rng)
	before := make(map[uint64]bool, len(g.Genes))
	for innov, gene := range g.Genes {
		before[innov] = gene.Enabled
	}

	g.mutateToggle(rng)

	flipped := 0
	for innov, gene := range g.Genes {
		if gene.Enabled != before[innov] {
			flipped++
		}
	}
	assert.Equal(t, 1, flipped)
}
