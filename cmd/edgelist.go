package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/onge-labs/hocsim/network"
)

// LoadEdgeList reads a "node,group" CSV file into a slice of
// network.Edge. This is the one place in the module that touches
// network I/O; the network package itself only ever consumes an
// in-memory edge slice.
func LoadEdgeList(path string) ([]network.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening edge list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true

	var edges []network.Edge
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing edge list: %w", err)
		}
		node, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("parsing node id %q: %w", record[0], err)
		}
		group, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("parsing group id %q: %w", record[1], err)
		}
		edges = append(edges, network.Edge{Node: network.Node(node), Group: network.Group(group)})
	}
	return edges, nil
}
