package main

import (
	"math/rand"
	"time"

	"github.com/heapkit/heapkit/heap"
	"github.com/heapkit/heapkit/heap/alloc"
	"github.com/spf13/cobra"
)

var (
	benchOps     int
	benchSeed    int64
	benchMaxSize int
	benchLive    int
	benchReserve int
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchOps, "ops", 100000, "Number of operations to run")
	cmd.Flags().Int64Var(&benchSeed, "seed", 1, "Workload random seed")
	cmd.Flags().IntVar(&benchMaxSize, "max-size", 512, "Largest request size in bytes")
	cmd.Flags().IntVar(&benchLive, "live", 256, "Target number of live allocations")
	cmd.Flags().IntVar(&benchReserve, "reserve", 1<<28, "Arena reservation in bytes")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run a random allocation workload",
		Long: `The bench command drives the allocator with a random
malloc/free/realloc mix at a bounded live-set size and reports throughput,
utilization and coalescing behavior.

Example:
  heapctl bench --ops 500000 --max-size 2048
  heapctl bench --seed 7 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

func runBench() error {
	a, cleanup, err := newArenaHeap(benchReserve)
	if err != nil {
		return err
	}
	defer cleanup()

	rng := rand.New(rand.NewSource(benchSeed))
	var live []heap.Ptr

	start := time.Now()
	for i := 0; i < benchOps; i++ {
		switch {
		case len(live) >= benchLive || (len(live) > 0 && rng.Intn(3) == 0):
			j := rng.Intn(len(live))
			if rng.Intn(8) == 0 {
				// Occasionally resize instead of freeing.
				ptr, _, reErr := a.Realloc(live[j], 1+rng.Intn(benchMaxSize))
				if reErr != nil {
					return reErr
				}
				live[j] = ptr
				continue
			}
			if freeErr := a.Free(live[j]); freeErr != nil {
				return freeErr
			}
			live = append(live[:j], live[j+1:]...)
		default:
			ptr, _, mErr := a.Malloc(1 + rng.Intn(benchMaxSize))
			if mErr != nil {
				return mErr
			}
			live = append(live, ptr)
		}
	}
	elapsed := time.Since(start)

	if err := a.Validate(); err != nil {
		return err
	}

	s := a.Stats()
	res := replayResult{
		Ops:         benchOps,
		DurationSec: elapsed.Seconds(),
		OpsPerSec:   float64(benchOps) / elapsed.Seconds(),
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
	printInfo("%d extends, %d coalesce fwd, %d coalesce back, %d free blocks\n",
		s.Extends, s.CoalesceForward, s.CoalesceBackward, res.FreeBlocks)
	return nil
}
