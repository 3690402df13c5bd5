package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
)

func writeTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rep")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestParseTrace(t *testing.T) {
	path := writeTrace(t, `# comment
20000
3
4
a 0 512
a 1 128
r 0 1024
f 1
f 0
`)
	ops, err := parseTrace(path)
	if err != nil {
		t.Fatalf("parseTrace: %v", err)
	}
	if len(ops) != 5 {
		t.Fatalf("got %d ops, want 5", len(ops))
	}
	if ops[0].kind != 'a' || ops[0].id != 0 || ops[0].size != 512 {
		t.Fatalf("bad first op: %+v", ops[0])
	}
	if ops[2].kind != 'r' || ops[2].size != 1024 {
		t.Fatalf("bad realloc op: %+v", ops[2])
	}
	if ops[4].kind != 'f' || ops[4].id != 0 {
		t.Fatalf("bad free op: %+v", ops[4])
	}
}

func TestParseTraceRejectsGarbage(t *testing.T) {
	for _, bad := range []string{
		"x 0 12\n",
		"a zero 12\n",
		"a 0\n",
		"a 0 -4\n",
	} {
		path := writeTrace(t, bad)
		if _, err := parseTrace(path); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestReplayTrace(t *testing.T) {
	path := writeTrace(t, `a 0 100
a 1 200
f 0
r 1 400
a 2 50
f 1
f 2
`)
	ops, err := parseTrace(path)
	if err != nil {
		t.Fatalf("parseTrace: %v", err)
	}
	a, err := alloc.NewHeap(heap.NewSliceGrower(0), nil)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	if err := replay(a, ops, true); err != nil {
		t.Fatalf("replay: %v", err)
	}
	s := a.Stats()
	if s.InUseBytes != 0 {
		t.Fatalf("all allocations freed, in-use = %d", s.InUseBytes)
	}
}

func TestRunValidate(t *testing.T) {
	path := writeTrace(t, `a 0 100
a 1 200
r 0 400
f 1
f 0
`)
	if err := runValidate(path); err != nil {
		t.Fatalf("runValidate: %v", err)
	}
}

func TestRunValidateReportsFailedOperation(t *testing.T) {
	saved := validateReserve
	validateReserve = 4096
	defer func() { validateReserve = saved }()

	// The second allocation cannot fit the reservation; validate must
	// surface the failing operation instead of finishing.
	path := writeTrace(t, `a 0 100
a 1 8192
`)
	if err := runValidate(path); err == nil {
		t.Fatal("expected error for allocation past the reservation")
	}
}
