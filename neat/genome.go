package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Genome is an individual organism: a set of nodes plus the connection
// genes wiring them together, addressed by innovation number so that
// crossover can align genes from two independently-evolved parents.
type Genome struct {
	Key             int
	Genes           map[uint64]*ConnectionGene
	Edges           map[ConnectionKey]uint64
	Nodes           map[int]NodeRole
	Fitness         float64
	AdjustedFitness float64
	SpeciesID       int
	NumInputs       int
	NumOutputs      int
	HasBias         bool
}

// NewGenome creates an empty genome shell; callers use NewMinimalGenome or
// Crossover to populate it rather than building one gene at a time.
func NewGenome(key, numInputs, numOutputs int, hasBias bool) *Genome {
	return &Genome{
		Key:        key,
		Genes:      make(map[uint64]*ConnectionGene),
		Edges:      make(map[ConnectionKey]uint64),
		Nodes:      make(map[int]NodeRole),
		NumInputs:  numInputs,
		NumOutputs: numOutputs,
		HasBias:    hasBias,
	}
}

// NewMinimalGenome builds the canonical starting genome: input nodes (and a
// bias node if enabled), output nodes, and a connection gene for every
// input(+bias)->output pair, each freshly weighted.
func NewMinimalGenome(key int, reg *InnovationRegistry, numInputs, numOutputs int, hasBias bool, rng *rand.Rand) *Genome {
	g := NewGenome(key, numInputs, numOutputs, hasBias)

	for i := 0; i < numInputs; i++ {
		g.Nodes[i] = RoleInput
	}

	biasID := -1
	outStart := numInputs
	if hasBias {
		biasID = numInputs
		g.Nodes[biasID] = RoleBias
		outStart = numInputs + 1
	}

	outputIDs := make([]int, numOutputs)
	for i := 0; i < numOutputs; i++ {
		id := outStart + i
		outputIDs[i] = id
		g.Nodes[id] = RoleOutput
	}

	sources := make([]int, 0, numInputs+1)
	for i := 0; i < numInputs; i++ {
		sources = append(sources, i)
	}
	if hasBias {
		sources = append(sources, biasID)
	}

	for _, s := range sources {
		for _, t := range outputIDs {
			innov := reg.InnovationFor(s, t)
			g.addGene(ConnectionGene{Innovation: innov, InNode: s, OutNode: t, Weight: randomWeight(rng), Enabled: true})
		}
	}
	return g
}

func (g *Genome) addGene(gene ConnectionGene) {
	gcopy := gene
	g.Genes[gene.Innovation] = &gcopy
	g.Edges[gene.Key()] = gene.Innovation
	if _, ok := g.Nodes[gene.InNode]; !ok {
		g.Nodes[gene.InNode] = RoleHidden
	}
	if _, ok := g.Nodes[gene.OutNode]; !ok {
		g.Nodes[gene.OutNode] = RoleHidden
	}
}

func (g *Genome) hasEdge(in, out int) bool {
	_, ok := g.Edges[ConnectionKey{InNode: in, OutNode: out}]
	return ok
}

// Clone returns a deep, independent copy of g under a new genome key.
func (g *Genome) Clone(key int) *Genome {
	c := NewGenome(key, g.NumInputs, g.NumOutputs, g.HasBias)
	c.SpeciesID = g.SpeciesID
	for k, v := range g.Nodes {
		c.Nodes[k] = v
	}
	for k, v := range g.Genes {
		cp := *v
		c.Genes[k] = &cp
		c.Edges[cp.Key()] = k
	}
	return c
}

// SortedGenes returns the genome's connection genes ordered by ascending
// innovation number, the order every deterministic traversal relies on.
func (g *Genome) SortedGenes() []*ConnectionGene {
	out := make([]*ConnectionGene, 0, len(g.Genes))
	for _, gene := range g.Genes {
		out = append(out, gene)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Innovation < out[j].Innovation })
	return out
}

func (g *Genome) maxInnovation() uint64 {
	var max uint64
	for innov := range g.Genes {
		if innov > max {
			max = innov
		}
	}
	return max
}

func (g *Genome) rolesOf(role NodeRole) []int {
	out := make([]int, 0)
	for id, r := range g.Nodes {
		if r == role {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// Distance computes the compatibility distance between two genomes as
// c1*E/N + c2*D/N + c3*W, where E and D are excess and disjoint gene
// counts, W is the mean weight difference of matching genes, and N is the
// size of the larger genome (or 1, for small genomes).
func (g *Genome) Distance(other *Genome, c1, c2, c3 float64) float64 {
	maxA, maxB := g.maxInnovation(), other.maxInnovation()

	var disjoint, excess, matching int
	var weightDiffSum float64

	for innov, ga := range g.Genes {
		if gb, ok := other.Genes[innov]; ok {
			weightDiffSum += math.Abs(ga.Weight - gb.Weight)
			matching++
		} else if innov > maxB {
			excess++
		} else {
			disjoint++
		}
	}
	for innov := range other.Genes {
		if _, ok := g.Genes[innov]; ok {
			continue
		}
		if innov > maxA {
			excess++
		} else {
			disjoint++
		}
	}

	n := math.Max(1, float64(maxInt(len(g.Genes), len(other.Genes))))
	w := 0.0
	if matching > 0 {
		w = weightDiffSum / float64(matching)
	}
	return c1*float64(excess)/n + c2*float64(disjoint)/n + c3*w
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Crossover produces a child genome from two parents, hi being the fitter
// (or, on a fitness tie, the deterministic tie-break winner). For every
// innovation both parents share, the child inherits the whole gene from one
// parent chosen uniformly at random; every gene unique to hi is inherited
// outright. When canonicalEnable is set, a gene disabled in either parent
// has a 0.75 chance of staying disabled in the child regardless of which
// parent's copy was picked, per the canonical NEAT enable-inheritance rule.
func (hi *Genome) Crossover(rng *rand.Rand, lo *Genome, childKey int, canonicalEnable bool) *Genome {
	child := NewGenome(childKey, hi.NumInputs, hi.NumOutputs, hi.HasBias)
	for id, role := range hi.Nodes {
		if role == RoleInput || role == RoleBias || role == RoleOutput {
			child.Nodes[id] = role
		}
	}

	for _, gHi := range hi.SortedGenes() {
		innov := gHi.Innovation
		var chosen ConnectionGene
		if gLo, ok := lo.Genes[innov]; ok {
			if rng.Float64() < 0.5 {
				chosen = *gHi
			} else {
				chosen = *gLo
			}
			if canonicalEnable && (!gHi.Enabled || !gLo.Enabled) {
				chosen.Enabled = rng.Float64() >= 0.75
			}
		} else {
			chosen = *gHi
		}
		child.addGene(chosen)
	}
	return child
}

// Mutate applies the four structural/parametric mutation operators in
// their fixed order: add-node, add-connection, weight mutation, toggle.
// Each operator fires independently according to its configured rate and
// is a no-op when its precondition can't be satisfied.
func (g *Genome) Mutate(reg *InnovationRegistry, rng *rand.Rand, o *Options) {
	if rng.Float64() < o.MutationRates.AddNodeRate {
		g.mutateAddNode(reg, rng)
	}
	if rng.Float64() < o.MutationRates.AddConnectionRate {
		g.mutateAddConnection(reg, rng, o.FeedForwardOnly)
	}
	if rng.Float64() < o.MutationRates.WeightMutationRate {
		g.mutateWeights(rng, o.PerturbationRate, o.PerturbationPower)
	}
	if rng.Float64() < o.MutationRates.ToggleConnectionRate {
		g.mutateToggle(rng)
	}
}

// mutateAddNode splits a randomly chosen enabled connection gene in two,
// disabling the original edge and wiring in-node -> new hidden -> out-node
// with weights 1.0 and the original weight, respectively. A genome with no
// enabled genes is left unchanged.
func (g *Genome) mutateAddNode(reg *InnovationRegistry, rng *rand.Rand) {
	enabled := make([]*ConnectionGene, 0, len(g.Genes))
	for _, gene := range g.SortedGenes() {
		if gene.Enabled {
			enabled = append(enabled, gene)
		}
	}
	if len(enabled) == 0 {
		return
	}
	target := enabled[rng.Intn(len(enabled))]
	target.Enabled = false

	newNode := reg.FreshNode()
	g.Nodes[newNode] = RoleHidden

	innov1 := reg.InnovationFor(target.InNode, newNode)
	innov2 := reg.InnovationFor(newNode, target.OutNode)
	g.addGene(ConnectionGene{Innovation: innov1, InNode: target.InNode, OutNode: newNode, Weight: 1.0, Enabled: true})
	g.addGene(ConnectionGene{Innovation: innov2, InNode: newNode, OutNode: target.OutNode, Weight: target.Weight, Enabled: true})
}

// mutateAddConnection tries to add one new edge, biasing candidate pairs by
// role preference (hidden->output, input->hidden, input->output,
// hidden->hidden) and picking uniformly at random within the first
// non-empty category. A fully-connected genome (or one where every
// remaining pair would introduce a cycle under feed-forward mode) is left
// unchanged.
func (g *Genome) mutateAddConnection(reg *InnovationRegistry, rng *rand.Rand, feedForwardOnly bool) {
	inputs := append(g.rolesOf(RoleInput), g.rolesOf(RoleBias)...)
	hidden := g.rolesOf(RoleHidden)
	outputs := g.rolesOf(RoleOutput)

	type pair struct{ in, out int }
	categories := [][2][]int{
		{hidden, outputs},
		{inputs, hidden},
		{inputs, outputs},
		{hidden, hidden},
	}

	for _, cat := range categories {
		candidates := make([]pair, 0)
		for _, s := range cat[0] {
			for _, t := range cat[1] {
				if s == t {
					continue
				}
				if g.hasEdge(s, t) {
					continue
				}
				if feedForwardOnly && g.createsCycle(s, t) {
					continue
				}
				candidates = append(candidates, pair{s, t})
			}
		}
		if len(candidates) == 0 {
			continue
		}
		p := candidates[rng.Intn(len(candidates))]
		innov := reg.InnovationFor(p.in, p.out)
		g.addGene(ConnectionGene{Innovation: innov, InNode: p.in, OutNode: p.out, Weight: randomWeight(rng), Enabled: true})
		return
	}
}

// createsCycle reports whether adding an edge from->to would create a
// directed cycle, by checking whether to can already reach from through
// currently enabled connections.
func (g *Genome) createsCycle(from, to int) bool {
	if from == to {
		return true
	}
	visited := map[int]bool{to: true}
	queue := []int{to}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n == from {
			return true
		}
		for _, gene := range g.Genes {
			if !gene.Enabled || gene.InNode != n {
				continue
			}
			if !visited[gene.OutNode] {
				visited[gene.OutNode] = true
				queue = append(queue, gene.OutNode)
			}
		}
	}
	return false
}

// mutateWeights perturbs or replaces every connection gene's weight, in
// ascending-innovation order so the sequence of rng draws is deterministic
// for a given seed.
func (g *Genome) mutateWeights(rng *rand.Rand, perturbRate, perturbPower float64) {
	for _, gene := range g.SortedGenes() {
		gene.Weight = perturbOrReplace(rng, gene.Weight, perturbRate, perturbPower)
	}
}

// mutateToggle flips the enabled flag of one uniformly-chosen connection
// gene. A genome with no genes is left unchanged.
func (g *Genome) mutateToggle(rng *rand.Rand) {
	genes := g.SortedGenes()
	if len(genes) == 0 {
		return
	}
	gene := genes[rng.Intn(len(genes))]
	gene.Enabled = !gene.Enabled
}
