package main

import (
	"github.com/spf13/cobra"
)

var validateReserve int

func init() {
	cmd := newValidateCmd()
	cmd.Flags().IntVar(&validateReserve, "reserve", 1<<28, "Arena reservation in bytes")
	rootCmd.AddCommand(cmd)
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <trace>",
		Short: "Replay a trace, checking heap invariants after every operation",
		Long: `The validate command replays an allocation trace and verifies the
full set of heap structure invariants after each operation: boundary
tags, block tiling, free-list consistency and sentinel state. It fails
on the first operation that leaves the heap in a bad state.

Example:
  heapctl validate workload.rep
  heapctl validate workload.rep --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

type validateResult struct {
	Ops        int   `json:"ops"`
	Blocks     int   `json:"blocks"`
	FreeBlocks int   `json:"free_blocks"`
	HeapBytes  int64 `json:"heap_bytes"`
}

func runValidate(path string) error {
	ops, err := parseTrace(path)
	if err != nil {
		return err
	}
	a, cleanup, err := newArenaHeap(validateReserve)
	if err != nil {
		return err
	}
	defer cleanup()
	if err := replay(a, ops, true); err != nil {
		return err
	}

	s := a.Stats()
	res := validateResult{
		Ops:        len(ops),
		Blocks:     len(a.Blocks()),
		FreeBlocks: s.FreeCount,
		HeapBytes:  s.HeapBytes,
	}
	if jsonOut {
		return printJSON(res)
	}
	printInfo("trace ok: %d ops, heap %d bytes, %d blocks (%d free)\n",
		res.Ops, res.HeapBytes, res.Blocks, res.FreeBlocks)
	return nil
}
