package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/heapkit/heapkit/internal/mmarena"
	"github.com/spf13/cobra"
)

var (
	traceValidateEach bool
	traceReserve      int
)

func init() {
	cmd := newTraceCmd()
	cmd.Flags().BoolVar(&traceValidateEach, "check", false, "Validate heap invariants after every operation")
	cmd.Flags().IntVar(&traceReserve, "reserve", 1<<28, "Arena reservation in bytes")
	rootCmd.AddCommand(cmd)
}

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace <file>",
		Short: "Replay a recorded allocation trace",
		Long: `The trace command replays an allocation trace against a fresh heap
and reports throughput and utilization.

Trace lines:
  a <id> <size>   allocate <size> bytes under <id>
  r <id> <size>   resize allocation <id> to <size> bytes
  f <id>          free allocation <id>

Lines that are blank, start with '#', or hold a single bare number
(trace-file headers) are skipped.

Example:
  heapctl trace workload.rep
  heapctl trace workload.rep --check --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args[0])
		},
	}
}

// traceOp is one parsed trace line.
type traceOp struct {
	kind byte // 'a', 'r' or 'f'
	id   int
	size int
}

func parseTrace(path string) ([]traceOp, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ops []traceOp
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 1 {
			if _, err := strconv.Atoi(fields[0]); err == nil {
				continue // header count line
			}
		}
		op, err := parseOp(fields)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ops, nil
}

func parseOp(fields []string) (traceOp, error) {
	if len(fields) < 2 {
		return traceOp{}, fmt.Errorf("malformed operation %q", strings.Join(fields, " "))
	}
	kind := fields[0]
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return traceOp{}, fmt.Errorf("bad id %q", fields[1])
	}
	switch kind {
	case "f":
		return traceOp{kind: 'f', id: id}, nil
	case "a", "r":
		if len(fields) != 3 {
			return traceOp{}, fmt.Errorf("%s needs a size", kind)
		}
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return traceOp{}, fmt.Errorf("bad size %q", fields[2])
		}
		return traceOp{kind: kind[0], id: id, size: size}, nil
	default:
		return traceOp{}, fmt.Errorf("unknown operation %q", kind)
	}
}

// replayResult summarizes a finished replay.
type replayResult struct {
	Ops         int     `json:"ops"`
	DurationSec float64 `json:"duration_sec"`
	OpsPerSec   float64 `json:"ops_per_sec"`
	HeapBytes   int64   `json:"heap_bytes"`
	PeakInUse   int64   `json:"peak_in_use_bytes"`
	Utilization float64 `json:"utilization"`
	Extends     int     `json:"extends"`
	FreeBlocks  int     `json:"free_blocks"`
}

// replay runs ops against a; ids map to live pointers as the trace executes.
func replay(a *alloc.Allocator, ops []traceOp, checkEach bool) error {
	ptrs := make(map[int]heap.Ptr)
	for i, op := range ops {
		var err error
		switch op.kind {
		case 'a':
			ptrs[op.id], _, err = a.Malloc(op.size)
		case 'r':
			ptrs[op.id], _, err = a.Realloc(ptrs[op.id], op.size)
		case 'f':
			err = a.Free(ptrs[op.id])
			delete(ptrs, op.id)
		}
		if err != nil {
			return fmt.Errorf("op %d (%c %d): %w", i, op.kind, op.id, err)
		}
		if checkEach {
			if err := a.Validate(); err != nil {
				return fmt.Errorf("op %d (%c %d): %w", i, op.kind, op.id, err)
			}
		}
	}
	return a.Validate()
}

func newArenaHeap(reserve int) (*alloc.Allocator, func(), error) {
	arena, err := mmarena.Reserve(reserve)
	if err != nil {
		return nil, nil, err
	}
	a, err := alloc.NewHeap(arena, nil)
	if err != nil {
		arena.Close()
		return nil, nil, err
	}
	return a, func() { arena.Close() }, nil
}

func runTrace(path string) error {
	ops, err := parseTrace(path)
	if err != nil {
		return err
	}
	a, cleanup, err := newArenaHeap(traceReserve)
	if err != nil {
		return err
	}
	defer cleanup()

	start := time.Now()
	if err := replay(a, ops, traceValidateEach); err != nil {
		return err
	}
	elapsed := time.Since(start)

	s := a.Stats()
	res := replayResult{
		Ops:         len(ops),
		DurationSec: elapsed.Seconds(),
		OpsPerSec:   float64(len(ops)) / elapsed.Seconds(),
		HeapBytes:   s.HeapBytes,
		PeakInUse:   s.PeakInUseBytes,
		Utilization: s.Utilization(),
		Extends:     s.Extends,
		FreeBlocks:  s.FreeCount,
	}
	if jsonOut {
		return printJSON(res)
	}
	printInfo("%d ops in %.3fs (%.0f ops/sec)\n", res.Ops, res.DurationSec, res.OpsPerSec)
	printInfo("heap %d bytes, peak in use %d, utilization %.1f%%\n",
		res.HeapBytes, res.PeakInUse, res.Utilization*100)
	printInfo("%d extends, %d free blocks at end\n", res.Extends, res.FreeBlocks)
	return nil
}
