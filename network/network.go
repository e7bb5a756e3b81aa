// Package network provides the immutable bipartite incidence structure
// between nodes and groups that every contagion variant is built on.
package network

import "fmt"

// Node is a dense node identifier in [0, N).
type Node int

// Group is a dense group identifier in [0, M).
type Group int

// Edge connects a Node to a Group it belongs to.
type Edge struct {
	Node  Node
	Group Group
}

// BipartiteNetwork is the immutable incidence relation between nodes and
// groups. It is built once from an edge list and never mutated afterward.
type BipartiteNetwork struct {
	nodeGroups    [][]Group // nodeGroups[n] = groups containing node n
	groupNodes    [][]Node  // groupNodes[g] = nodes belonging to group g
	minMembership int
	maxMembership int
	minGroupSize  int
	maxGroupSize  int
}

// New builds a BipartiteNetwork from a sequence of (node, group) edges.
// Node and Group labels must be dense non-negative integers; N and M are
// derived as (max observed label + 1) on each side. An empty edge list
// yields a valid, empty network (N = M = 0) rather than an error.
func New(edges []Edge) (*BipartiteNetwork, error) {
	n, m := 0, 0
	for _, e := range edges {
		if e.Node < 0 || e.Group < 0 {
			return nil, fmt.Errorf("network: edge (%d, %d) has a negative label", e.Node, e.Group)
		}
		if int(e.Node)+1 > n {
			n = int(e.Node) + 1
		}
		if int(e.Group)+1 > m {
			m = int(e.Group) + 1
		}
	}

	net := &BipartiteNetwork{
		nodeGroups: make([][]Group, n),
		groupNodes: make([][]Node, m),
	}
	for _, e := range edges {
		net.nodeGroups[e.Node] = append(net.nodeGroups[e.Node], e.Group)
		net.groupNodes[e.Group] = append(net.groupNodes[e.Group], e.Node)
	}

	net.computeExtrema()
	return net, nil
}

func (net *BipartiteNetwork) computeExtrema() {
	if len(net.nodeGroups) == 0 {
		net.minMembership, net.maxMembership = 0, 0
	} else {
		net.minMembership = len(net.nodeGroups[0])
		net.maxMembership = len(net.nodeGroups[0])
		for _, groups := range net.nodeGroups[1:] {
			if len(groups) < net.minMembership {
				net.minMembership = len(groups)
			}
			if len(groups) > net.maxMembership {
				net.maxMembership = len(groups)
			}
		}
	}

	if len(net.groupNodes) == 0 {
		net.minGroupSize, net.maxGroupSize = 0, 0
	} else {
		net.minGroupSize = len(net.groupNodes[0])
		net.maxGroupSize = len(net.groupNodes[0])
		for _, members := range net.groupNodes[1:] {
			if len(members) < net.minGroupSize {
				net.minGroupSize = len(members)
			}
			if len(members) > net.maxGroupSize {
				net.maxGroupSize = len(members)
			}
		}
	}
}

// Size returns N, the number of nodes.
func (net *BipartiteNetwork) Size() int { return len(net.nodeGroups) }

// NumberOfGroups returns M, the number of groups.
func (net *BipartiteNetwork) NumberOfGroups() int { return len(net.groupNodes) }

// Membership returns the number of groups node n belongs to.
func (net *BipartiteNetwork) Membership(n Node) int { return len(net.nodeGroups[n]) }

// GroupSize returns the number of members of group g.
func (net *BipartiteNetwork) GroupSize(g Group) int { return len(net.groupNodes[g]) }

// GroupMembers returns the members of group g. Callers must not mutate the
// returned slice; it is the network's own backing storage.
func (net *BipartiteNetwork) GroupMembers(g Group) []Node { return net.groupNodes[g] }

// AdjacentGroups returns the groups node n belongs to. Callers must not
// mutate the returned slice.
func (net *BipartiteNetwork) AdjacentGroups(n Node) []Group { return net.nodeGroups[n] }

// MinMembership returns the smallest membership count over all nodes.
func (net *BipartiteNetwork) MinMembership() int { return net.minMembership }

// MaxMembership returns the largest membership count over all nodes.
func (net *BipartiteNetwork) MaxMembership() int { return net.maxMembership }

// MinGroupSize returns the smallest group size over all groups.
func (net *BipartiteNetwork) MinGroupSize() int { return net.minGroupSize }

// MaxGroupSize returns the largest group size over all groups.
func (net *BipartiteNetwork) MaxGroupSize() int { return net.maxGroupSize }
