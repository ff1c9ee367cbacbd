package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Reproduction owns the monotonic genome-key counter and turns one
// generation's speciated population into the next.
type Reproduction struct {
	NextGenomeKey int
}

// NewReproduction returns a reproduction manager whose genome keys start at 1.
func NewReproduction() *Reproduction {
	return &Reproduction{NextGenomeKey: 1}
}

func (r *Reproduction) nextKey() int {
	key := r.NextGenomeKey
	r.NextGenomeKey++
	return key
}

// CreateInitialPopulation builds the first generation of minimal genomes.
func (r *Reproduction) CreateInitialPopulation(reg *InnovationRegistry, o *Options, rng *rand.Rand) []*Genome {
	pop := make([]*Genome, 0, o.PopulationSize)
	for i := 0; i < o.PopulationSize; i++ {
		pop = append(pop, NewMinimalGenome(r.nextKey(), reg, o.Inputs, o.Outputs, o.Bias, rng))
	}
	return pop
}

// allocateOffspring implements fitness sharing plus largest-remainder
// reconciliation: each active species (adjusted-fitness sum > 0) is
// tentatively allocated max(1, floor(share*popSize)) slots, then slots are
// added to (or removed from) the largest (or smallest, above 1) allocation
// one at a time until the total exactly equals popSize. If there are more
// active species than population slots, only the popSize species with the
// largest adjusted-fitness sum are kept, so the exact-total invariant always
// holds.
func allocateOffspring(ordered []*Species, popSize int) map[int]int {
	type entry struct {
		id  int
		adj float64
	}
	active := make([]entry, 0, len(ordered))
	for _, sp := range ordered {
		var s float64
		for _, m := range sp.Members {
			s += m.AdjustedFitness
		}
		if s > 0 {
			active = append(active, entry{sp.ID, s})
		}
	}
	if len(active) == 0 {
		return map[int]int{}
	}
	if len(active) > popSize {
		sort.Slice(active, func(i, j int) bool { return active[i].adj > active[j].adj })
		active = active[:popSize]
	}

	total := 0.0
	for _, e := range active {
		total += e.adj
	}

	alloc := make(map[int]int, len(active))
	ids := make([]int, 0, len(active))
	if total <= 0 {
		base := popSize / len(active)
		for _, e := range active {
			alloc[e.id] = base
			ids = append(ids, e.id)
		}
	} else {
		for _, e := range active {
			n := int(math.Floor((e.adj / total) * float64(popSize)))
			if n < 1 {
				n = 1
			}
			alloc[e.id] = n
			ids = append(ids, e.id)
		}
	}
	sort.Ints(ids)

	sum := 0
	for _, n := range alloc {
		sum += n
	}
	for sum < popSize {
		best := ids[0]
		for _, id := range ids {
			if alloc[id] > alloc[best] {
				best = id
			}
		}
		alloc[best]++
		sum++
	}
	for sum > popSize {
		cand := -1
		for _, id := range ids {
			if alloc[id] > 1 && (cand == -1 || alloc[id] < alloc[cand]) {
				cand = id
			}
		}
		if cand == -1 {
			break
		}
		alloc[cand]--
		sum--
	}
	return alloc
}

func tournamentSelect(rng *rand.Rand, members []*Genome, k int) *Genome {
	if k > len(members) {
		k = len(members)
	}
	perm := rng.Perm(len(members))
	best := members[perm[0]]
	for _, i := range perm[1:k] {
		if members[i].Fitness > best.Fitness {
			best = members[i]
		}
	}
	return best
}

// Reproduce runs fitness sharing, offspring allocation, and breeding for
// every species in ascending species-id order, returning the next
// generation's population. Species whose adjusted-fitness sum is not
// positive receive no offspring and die out.
func (r *Reproduction) Reproduce(rng *rand.Rand, reg *InnovationRegistry, speciesSet *SpeciesSet, o *Options) []*Genome {
	for _, sp := range speciesSet.Species {
		n := len(sp.Members)
		for _, m := range sp.Members {
			m.AdjustedFitness = m.Fitness / float64(n)
		}
	}

	ordered := speciesSet.Ordered()
	alloc := allocateOffspring(ordered, o.PopulationSize)

	next := make([]*Genome, 0, o.PopulationSize)
	for _, sp := range ordered {
		n := alloc[sp.ID]
		if n <= 0 {
			continue
		}

		members := append([]*Genome(nil), sp.Members...)
		sort.Slice(members, func(i, j int) bool { return members[i].Fitness > members[j].Fitness })

		eliteCount := o.Elitism
		if eliteCount > n {
			eliteCount = n
		}
		for i := 0; i < eliteCount && i < len(members); i++ {
			next = append(next, members[i])
		}

		for j := eliteCount; j < n; j++ {
			var child *Genome
			if len(members) > 1 && rng.Float64() < o.CrossoverRate {
				p1 := tournamentSelect(rng, members, 3)
				p2 := tournamentSelect(rng, members, 3)
				hi, lo := p1, p2
				if lo.Fitness > hi.Fitness || (lo.Fitness == hi.Fitness && lo.Key < hi.Key) {
					hi, lo = lo, hi
				}
				child = hi.Crossover(rng, lo, r.nextKey(), o.CanonicalEnabledInheritance)
			} else {
				parent := tournamentSelect(rng, members, 3)
				child = parent.Clone(r.nextKey())
			}
			child.Mutate(reg, rng, o)
			child.SpeciesID = sp.ID
			next = append(next, child)
		}
	}
	return next
}
