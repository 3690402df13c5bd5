package main

import (
	"testing"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/heapkit/heapkit/internal/format"
)

func TestDumpRows(t *testing.T) {
	a, err := alloc.NewHeap(heap.NewSliceGrower(0), nil)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}
	if _, _, err := a.Malloc(100); err != nil {
		t.Fatalf("Malloc: %v", err)
	}

	rows := dumpRows(a)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want prologue/alloc/free/epilogue", len(rows))
	}
	if rows[0].State != "sentinel" || rows[len(rows)-1].State != "sentinel" {
		t.Fatalf("missing sentinel rows: %+v", rows)
	}
	for i, row := range rows {
		if row.End != row.Off+row.Size {
			t.Fatalf("row %d: end %d != off %d + size %d", i, row.End, row.Off, row.Size)
		}
		if i > 0 && rows[i-1].End != row.Off {
			t.Fatalf("gap between rows %d and %d", i-1, i)
		}
		switch row.State {
		case "free":
			if row.FreeBytes != row.Size-format.Overhead {
				t.Fatalf("row %d: free payload %d, want %d", i, row.FreeBytes, row.Size-format.Overhead)
			}
		default:
			if row.FreeBytes != 0 {
				t.Fatalf("row %d: %s block reports free payload %d", i, row.State, row.FreeBytes)
			}
		}
	}
}
