package main

import (
	"fmt"
	"strings"

	"github.com/heapkit/heapkit/heap/alloc"
)

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("heapview — %s", m.source)))
	b.WriteString(fmt.Sprintf("  step %d/%d", m.step, len(m.ops)))
	if m.lastOp != "" {
		b.WriteString("  ")
		b.WriteString(opStyle.Render(m.lastOp))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderHeapBar())
	b.WriteString("\n\n")

	b.WriteString(m.blocks.View())
	b.WriteString("\n")

	s := m.a.Stats()
	b.WriteString(statsStyle.Render(fmt.Sprintf(
		"heap %d B | in use %d B | peak %d B | util %.1f%% | free blocks %d | extends %d",
		s.HeapBytes, s.InUseBytes, s.PeakInUseBytes, s.Utilization()*100, s.FreeCount, s.Extends)))
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(errStyle.Render("ERROR: " + m.lastErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("space/n step · s step 10 · g run · r reset · ↑/↓ scroll · q quit"))
	return b.String()
}

// renderHeapBar draws the whole heap as one proportional bar, one colored
// run per block.
func (m *Model) renderHeapBar() string {
	blocks := m.a.Blocks()
	width := m.width - 2
	if width < 10 {
		width = 10
	}
	heapSize := int64(m.a.Region().Size())

	var bar strings.Builder
	bar.WriteString(" ")
	used := 0
	for _, blk := range blocks {
		if blk.Size == 0 {
			continue
		}
		cells := int(int64(blk.Size) * int64(width) / heapSize)
		if cells < 1 {
			cells = 1
		}
		if used+cells > width {
			cells = width - used
			if cells <= 0 {
				break
			}
		}
		used += cells
		run := strings.Repeat("█", cells)
		switch {
		case blk.Sentinel:
			bar.WriteString(sentinelCell.Render(run))
		case blk.Allocated:
			bar.WriteString(allocCell.Render(run))
		default:
			bar.WriteString(freeCell.Render(run))
		}
	}
	return bar.String()
}

// renderBlockList builds the scrollable per-block table.
func (m *Model) renderBlockList() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %-10s %-10s %-10s %s\n", "OFFSET", "SIZE", "END", "STATE"))
	for _, blk := range m.a.Blocks() {
		line := fmt.Sprintf("  %-10d %-10d %-10d %s",
			blk.Off, blk.Size, blk.Off+blk.Size, blockState(blk))
		switch {
		case blk.Sentinel:
			b.WriteString(sentinelCell.Render(line))
		case blk.Allocated:
			b.WriteString(allocCell.Render(line))
		default:
			b.WriteString(freeCell.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func blockState(blk alloc.BlockInfo) string {
	switch {
	case blk.Sentinel && blk.Size == 0:
		return "epilogue"
	case blk.Sentinel:
		return "prologue"
	case blk.Allocated:
		return "alloc"
	default:
		return "free"
	}
}
