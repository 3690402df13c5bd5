package alloc

// Stats holds allocator counters, for instrumentation and tests.
type Stats struct {
	MallocCalls  int // total Malloc() calls, zero-size included
	FreeCalls    int // total Free() calls, no-ops included
	ReallocCalls int // total Realloc() calls

	Extends     int   // region extensions performed
	ExtendBytes int64 // total bytes added by extensions

	CoalesceForward  int // merges that absorbed a free successor
	CoalesceBackward int // merges absorbed by a free predecessor

	BytesRequested int64 // sum of payload sizes asked of Malloc

	InUseBytes     int64 // block bytes currently allocated, overhead included
	PeakInUseBytes int64 // high-water mark of InUseBytes

	HeapBytes int64 // current region size; filled in by Stats()
	FreeCount int   // current free-list length; filled in by Stats()
}

// Stats returns a snapshot of the allocator counters.
func (a *Allocator) Stats() Stats {
	s := a.stats
	s.HeapBytes = int64(a.r.Size())
	s.FreeCount = a.fl.count(a.r.Bytes())
	return s
}

// Utilization is the peak in-use bytes over the final heap size, the usual
// figure of merit for placement policy quality. Zero when nothing was
// allocated.
func (s Stats) Utilization() float64 {
	if s.HeapBytes == 0 {
		return 0
	}
	return float64(s.PeakInUseBytes) / float64(s.HeapBytes)
}
