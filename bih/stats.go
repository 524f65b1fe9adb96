package bih

import (
	"bytes"
	"fmt"
	"time"
	"unsafe"

	"github.com/olekukonko/tablewriter"
)

// Stats collected while building a tree.
type Stats struct {
	Triangles int

	// Number of split nodes and leaves.
	Nodes  int
	Leaves int

	MaxDepth         int
	MaxLeafTriangles int

	// Leaves created by the depth cap; only these may hold more than the
	// max triangles per node.
	DepthCappedLeaves int

	BuildTime time.Duration
}

// Build a tabular representation of the tree statistics.
func (s Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Triangles", fmt.Sprintf("%d", s.Triangles)})
	table.Append([]string{"Split nodes", fmt.Sprintf("%d", s.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", s.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", s.MaxDepth)})
	table.Append([]string{"Max leaf triangles", fmt.Sprintf("%d", s.MaxLeafTriangles)})
	table.Append([]string{"Depth capped leaves", fmt.Sprintf("%d", s.DepthCappedLeaves)})
	table.Append([]string{"Memory", fmtSize(s)})
	table.SetFooter([]string{"Build time", s.BuildTime.String()})

	table.Render()
	return buf.String()
}

// Estimate the memory used by the node arena and triangle store and return
// it formatted with the appropriate byte/kb/mb unit.
func fmtSize(s Stats) string {
	nodeSize := int(unsafe.Sizeof(node{}))
	triSize := 9*int(unsafe.Sizeof(float32(0))) + int(unsafe.Sizeof(int(0)))
	totalBytes := float32((s.Nodes+s.Leaves)*nodeSize + s.Triangles*triSize)

	if totalBytes < 1e3 {
		return fmt.Sprintf("%d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
