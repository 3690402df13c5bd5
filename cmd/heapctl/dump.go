package main

import (
	"github.com/spf13/cobra"

	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/heapkit/heapkit/internal/format"
)

var dumpReserve int

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpReserve, "reserve", 1<<28, "Arena reservation in bytes")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <trace>",
		Short: "Replay a trace and print the final block map",
		Long: `The dump command replays an allocation trace and prints every
block of the resulting heap in address order, sentinels included.

Example:
  heapctl dump workload.rep
  heapctl dump workload.rep --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

type dumpBlock struct {
	Off       int32  `json:"off"`
	Size      int32  `json:"size"`
	State     string `json:"state"`
	End       int32  `json:"end"`
	FreeBytes int32  `json:"free_payload,omitempty"`
}

// dumpRows snapshots the heap as one row per block, sentinels included.
func dumpRows(a *alloc.Allocator) []dumpBlock {
	blocks := a.Blocks()
	out := make([]dumpBlock, 0, len(blocks))
	for _, blk := range blocks {
		state := "free"
		switch {
		case blk.Sentinel:
			state = "sentinel"
		case blk.Allocated:
			state = "alloc"
		}
		db := dumpBlock{Off: blk.Off, Size: blk.Size, State: state, End: blk.Off + blk.Size}
		if state == "free" {
			db.FreeBytes = blk.Size - format.Overhead
		}
		out = append(out, db)
	}
	return out
}

func runDump(path string) error {
	ops, err := parseTrace(path)
	if err != nil {
		return err
	}
	a, cleanup, err := newArenaHeap(dumpReserve)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := replay(a, ops, false); err != nil {
		return err
	}

	out := dumpRows(a)
	if jsonOut {
		return printJSON(out)
	}
	printInfo("%-10s %-10s %-10s %s\n", "OFFSET", "SIZE", "END", "STATE")
	for _, db := range out {
		printInfo("%-10d %-10d %-10d %s\n", db.Off, db.Size, db.End, db.State)
	}
	return nil
}
