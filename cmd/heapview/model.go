package main

import (
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
)

// Model drives an allocator one trace operation at a time and renders the
// resulting block layout.
type Model struct {
	source string
	ops    []traceOp

	a    *alloc.Allocator
	ptrs map[int]heap.Ptr
	step int // ops executed so far

	lastOp  string
	lastErr error

	blocks viewport.Model
	width  int
	height int
	ready  bool
}

func newModel(source string, ops []traceOp) (*Model, error) {
	m := &Model{source: source, ops: ops}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// reset rebuilds a fresh heap and rewinds the trace.
func (m *Model) reset() error {
	a, err := alloc.NewHeap(heap.NewSliceGrower(0), nil)
	if err != nil {
		return err
	}
	m.a = a
	m.ptrs = make(map[int]heap.Ptr)
	m.step = 0
	m.lastOp = ""
	m.lastErr = nil
	return nil
}

// advance executes the next trace operation, if any.
func (m *Model) advance() {
	if m.step >= len(m.ops) || m.lastErr != nil {
		return
	}
	op := m.ops[m.step]
	m.step++
	m.lastOp = op.String()

	var err error
	switch op.kind {
	case 'a':
		m.ptrs[op.id], _, err = m.a.Malloc(op.size)
	case 'r':
		m.ptrs[op.id], _, err = m.a.Realloc(m.ptrs[op.id], op.size)
	case 'f':
		err = m.a.Free(m.ptrs[op.id])
		delete(m.ptrs, op.id)
	}
	if err == nil {
		err = m.a.Validate()
	}
	m.lastErr = err
}

func (m *Model) done() bool { return m.step >= len(m.ops) }
