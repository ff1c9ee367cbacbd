package neat

import "sync"

// ConnectionKey identifies a potential edge between two nodes independent of
// any genome. Two edges with the same key across two different genomes
// represent the same historical mutation only if they also share an
// innovation number, which InnovationRegistry is responsible for enforcing.
type ConnectionKey struct {
	InNode  int
	OutNode int
}

// InnovationRegistry hands out innovation numbers for connection genes and
// ids for newly created hidden nodes, scoped to a single run rather than a
// package-level singleton so that concurrent runs never interfere with each
// other's historical markers.
type InnovationRegistry struct {
	mu                sync.Mutex
	connections       map[ConnectionKey]uint64
	nextInnov         uint64
	nextNode          int
	firstHiddenNodeID int
}

// NewInnovationRegistry creates a registry whose node-id counter starts
// after the last node id reserved by a genome's fixed input/bias/output
// layout, so freshly minted hidden nodes never collide with them.
func NewInnovationRegistry(firstHiddenNodeID int) *InnovationRegistry {
	return &InnovationRegistry{
		connections:       make(map[ConnectionKey]uint64),
		nextInnov:         1,
		nextNode:          firstHiddenNodeID,
		firstHiddenNodeID: firstHiddenNodeID,
	}
}

// InnovationFor returns the innovation number for the (inNode, outNode)
// edge, minting a new one on first sight and returning the existing one on
// every subsequent call within the registry's lifetime. This is what gives
// two independently-mutated occurrences of the same structural edge the
// same historical marker.
func (r *InnovationRegistry) InnovationFor(inNode, outNode int) uint64 {
	key := ConnectionKey{InNode: inNode, OutNode: outNode}
	r.mu.Lock()
	defer r.mu.Unlock()
	if innov, ok := r.connections[key]; ok {
		return innov
	}
	innov := r.nextInnov
	r.nextInnov++
	r.connections[key] = innov
	return innov
}

// FreshNode reserves and returns a new hidden node id.
func (r *InnovationRegistry) FreshNode() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextNode
	r.nextNode++
	return id
}

// Reset clears the connection mapping and rewinds both counters to their
// initial values (next_innovation = 1, next_node = the registry's original
// first-hidden-node id), as if the registry had just been constructed.
func (r *InnovationRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections = make(map[ConnectionKey]uint64)
	r.nextInnov = 1
	r.nextNode = r.firstHiddenNodeID
}

// InnovationSnapshot is the serializable state of an InnovationRegistry,
// used by checkpointing to make evolved state fully resumable.
type InnovationSnapshot struct {
	Connections map[ConnectionKey]uint64
	NextInnov   uint64
	NextNode    int
}

// Snapshot captures the registry's current state for checkpointing.
func (r *InnovationRegistry) Snapshot() InnovationSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[ConnectionKey]uint64, len(r.connections))
	for k, v := range r.connections {
		cp[k] = v
	}
	return InnovationSnapshot{Connections: cp, NextInnov: r.nextInnov, NextNode: r.nextNode}
}

// Restore replaces the registry's state with a previously captured
// snapshot, used when resuming a run from a checkpoint.
func (r *InnovationRegistry) Restore(s InnovationSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make(map[ConnectionKey]uint64, len(s.Connections))
	for k, v := range s.Connections {
		cp[k] = v
	}
	r.connections = cp
	r.nextInnov = s.NextInnov
	r.nextNode = s.NextNode
}
