package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// traceOp is one allocation-trace operation: a (allocate), r (resize) or
// f (free), addressed by workload-local id.
type traceOp struct {
	kind byte
	id   int
	size int
}

func (op traceOp) String() string {
	switch op.kind {
	case 'f':
		return fmt.Sprintf("free #%d", op.id)
	case 'r':
		return fmt.Sprintf("realloc #%d -> %d bytes", op.id, op.size)
	default:
		return fmt.Sprintf("malloc #%d, %d bytes", op.id, op.size)
	}
}

// parseTrace reads the classic driver format: "a id size", "r id size",
// "f id"; blank lines, "#" comments and bare-number header lines are skipped.
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
			if _, numErr := strconv.Atoi(fields[0]); numErr == nil {
				continue
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
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return traceOp{}, fmt.Errorf("bad id %q", fields[1])
	}
	switch fields[0] {
	case "f":
		return traceOp{kind: 'f', id: id}, nil
	case "a", "r":
		if len(fields) != 3 {
			return traceOp{}, fmt.Errorf("%s needs a size", fields[0])
		}
		size, err := strconv.Atoi(fields[2])
		if err != nil || size < 0 {
			return traceOp{}, fmt.Errorf("bad size %q", fields[2])
		}
		return traceOp{kind: fields[0][0], id: id, size: size}, nil
	default:
		return traceOp{}, fmt.Errorf("unknown operation %q", fields[0])
	}
}

// randomWorkload generates a mixed malloc/free/realloc sequence with a
// bounded live set, the same shape heapctl bench drives.
func randomWorkload(n int, seed int64) []traceOp {
	rng := rand.New(rand.NewSource(seed))
	var ops []traceOp
	var live []int
	next := 0
	for len(ops) < n {
		switch {
		case len(live) >= 24 || (len(live) > 0 && rng.Intn(3) == 0):
			j := rng.Intn(len(live))
			if rng.Intn(6) == 0 {
				ops = append(ops, traceOp{kind: 'r', id: live[j], size: 1 + rng.Intn(512)})
				continue
			}
			ops = append(ops, traceOp{kind: 'f', id: live[j]})
			live = append(live[:j], live[j+1:]...)
		default:
			ops = append(ops, traceOp{kind: 'a', id: next, size: 1 + rng.Intn(512)})
			live = append(live, next)
			next++
		}
	}
	return ops[:n]
}
