package bih

import "github.com/achilleasa/bih/collision"

// A pending traversal step: a subtree and the ray interval to test it with.
type stackFrame struct {
	node       uint32
	tMin, tMax float32
}

// Scratch holds the reusable buffers needed by a ray query. A Scratch may be
// reused across queries (and trees) but must not be shared by concurrent
// queries.
type Scratch struct {
	stack        []stackFrame
	boundResults collision.Results
}

// Create a new scratch workspace.
func NewScratch() *Scratch {
	return &Scratch{
		stack: make([]stackFrame, 0, 2*MaxTreeDepth),
	}
}

func (s *Scratch) push(node uint32, tMin, tMax float32) {
	s.stack = append(s.stack, stackFrame{node: node, tMin: tMin, tMax: tMax})
}

func (s *Scratch) pop() stackFrame {
	frame := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return frame
}
