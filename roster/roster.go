// Package roster maintains, for every group in a bipartite network, a
// partition of its members into per-state lists with O(1) membership
// moves between states.
package roster

import "github.com/onge-labs/hocsim/network"

// Roster tracks, for each group, an ordered list of members per state.
// The caller is the sole authority on a node's current state; Roster
// only keeps the per-group partition consistent with what Move is told.
type Roster struct {
	numStates int
	members   [][][]network.Node      // members[g][s]
	localIdx  []map[network.Node]int  // localIdx[g][n] = index of n within group g's member list
	pos       [][]int                 // pos[g][localIdx] = current index of n within members[g][state(n)]
}

// New builds a Roster for net with numStates per-group state lists,
// placing every member of every group into stateOf(n)'s list.
func New(net *network.BipartiteNetwork, numStates int, stateOf func(network.Node) int) *Roster {
	r := &Roster{
		numStates: numStates,
		members:   make([][][]network.Node, net.NumberOfGroups()),
		localIdx:  make([]map[network.Node]int, net.NumberOfGroups()),
		pos:       make([][]int, net.NumberOfGroups()),
	}
	for g := 0; g < net.NumberOfGroups(); g++ {
		grp := network.Group(g)
		members := net.GroupMembers(grp)
		r.members[g] = make([][]network.Node, numStates)
		r.localIdx[g] = make(map[network.Node]int, len(members))
		r.pos[g] = make([]int, len(members))
		for li, n := range members {
			r.localIdx[g][n] = li
			s := stateOf(n)
			r.members[g][s] = append(r.members[g][s], n)
			r.pos[g][li] = len(r.members[g][s]) - 1
		}
	}
	return r
}

// Move transfers n from state `from` to state `to` within group g,
// preserving O(1) cost by swapping with the back of the source list.
func (r *Roster) Move(g network.Group, n network.Node, from, to int) {
	li := r.localIdx[g][n]
	p := r.pos[g][li]
	src := r.members[g][from]
	last := len(src) - 1

	movedNode := src[last]
	src[p], src[last] = src[last], src[p]
	if p != last {
		r.pos[g][r.localIdx[g][movedNode]] = p
	}
	r.members[g][from] = src[:last]

	r.members[g][to] = append(r.members[g][to], n)
	r.pos[g][li] = len(r.members[g][to]) - 1
}

// Members returns the current members of group g in state s. Callers
// must not mutate the returned slice; it is the roster's own storage.
func (r *Roster) Members(g network.Group, s int) []network.Node { return r.members[g][s] }

// Count returns the number of members of group g currently in state s.
func (r *Roster) Count(g network.Group, s int) int { return len(r.members[g][s]) }
