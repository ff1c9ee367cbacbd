// Package nn builds runnable feed-forward phenotype networks out of a plain
// description of nodes and weighted edges, independent of how that
// description was evolved.
package nn

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrCycleDetected is returned by Build when the given edges describe a
// non-feed-forward graph: a strict feed-forward builder cannot topologically
// order a cycle.
var ErrCycleDetected = errors.New("nn: phenotype graph contains a cycle")

// ErrInputArityMismatch is returned by Activate when the caller's input
// vector length disagrees with the network's number of input nodes.
var ErrInputArityMismatch = errors.New("nn: input vector length does not match input node count")

// Role classifies a node for the purposes of network construction and
// activation: inputs and bias are read from the caller's input vector,
// outputs are read back out after activation, hidden nodes are internal.
type Role int

const (
	RoleInput Role = iota
	RoleBias
	RoleOutput
	RoleHidden
)

// NodeSpec describes one node of a phenotype independent of any genome
// representation.
type NodeSpec struct {
	ID   int
	Role Role
}

// EdgeSpec describes one directed, weighted edge of a phenotype.
type EdgeSpec struct {
	From, To int
	Weight   float64
}

// ActivationFunc is the single, network-wide, overridable non-linearity
// applied to every hidden and output node's weighted input sum.
type ActivationFunc func(float64) float64

// Network is a built, runnable feed-forward phenotype.
type Network struct {
	inputs  []int
	bias    int // -1 if the network has no bias node
	outputs []int
	order   []int // hidden + output nodes, topologically sorted
	incoming map[int][]EdgeSpec
	activate ActivationFunc
}

// Build constructs a Network from a flat node/edge description, performing
// a topological sort over the induced directed graph and returning an error
// if the edges describe a cycle instead of silently misbehaving.
func Build(nodes []NodeSpec, edges []EdgeSpec, activation ActivationFunc) (*Network, error) {
	if activation == nil {
		return nil, fmt.Errorf("nn: Build requires a non-nil activation function")
	}

	g := simple.NewDirectedGraph()
	for _, n := range nodes {
		g.AddNode(simple.Node(n.ID))
	}
	for _, e := range edges {
		if !g.HasEdgeFromTo(int64(e.From), int64(e.To)) {
			g.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
		}
	}

	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCycleDetected, err)
	}

	net := &Network{
		bias:     -1,
		incoming: make(map[int][]EdgeSpec),
	}
	for _, n := range nodes {
		switch n.Role {
		case RoleInput:
			net.inputs = append(net.inputs, n.ID)
		case RoleBias:
			net.bias = n.ID
		case RoleOutput:
			net.outputs = append(net.outputs, n.ID)
		}
	}
	for _, e := range edges {
		net.incoming[e.To] = append(net.incoming[e.To], e)
	}

	roleByID := make(map[int]Role, len(nodes))
	for _, n := range nodes {
		roleByID[n.ID] = n.Role
	}
	for _, gn := range sorted {
		id := int(gn.ID())
		if roleByID[id] == RoleHidden || roleByID[id] == RoleOutput {
			net.order = append(net.order, id)
		}
	}
	net.activate = activation
	return net, nil
}

// Activate feeds inputs through the network in topological order and
// returns the output nodes' values, in the same order the network was
// built with. len(inputs) must equal the number of input nodes.
func (n *Network) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(n.inputs) {
		return nil, fmt.Errorf("%w: expected %d inputs, got %d", ErrInputArityMismatch, len(n.inputs), len(inputs))
	}

	values := make(map[int]float64, len(n.inputs)+len(n.order)+1)
	for i, id := range n.inputs {
		values[id] = inputs[i]
	}
	if n.bias >= 0 {
		values[n.bias] = 1.0
	}

	for _, id := range n.order {
		var sum float64
		for _, e := range n.incoming[id] {
			sum += values[e.From] * e.Weight
		}
		values[id] = n.activate(sum)
	}

	out := make([]float64, len(n.outputs))
	for i, id := range n.outputs {
		out[i] = values[id]
	}
	return out, nil
}

// NodeCount returns the total number of nodes in the built network.
func (n *Network) NodeCount() int {
	return len(n.inputs) + len(n.order) + boolToInt(n.bias >= 0)
}

// EdgeCount returns the total number of edges in the built network.
func (n *Network) EdgeCount() int {
	count := 0
	for _, edges := range n.incoming {
		count += len(edges)
	}
	return count
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
