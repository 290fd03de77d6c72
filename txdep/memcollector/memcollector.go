// Package memcollector is an in-memory reference txdep.CellCollector
// rather than a real chain index. It is the collector used by this
// module's own balancer tests and is a reasonable default for a
// single-process caller that already has its live-cell set in memory.
package memcollector

import (
	"sync"

	"github.com/ckbhub/txbuilder/ckbtype"
	"github.com/ckbhub/txbuilder/txdep"
)

// Cell is one live cell known to the collector, with its data length
// (the collector never inspects the data itself, only its length, since
// that's all CellQueryOptions.DataLenRange needs).
type Cell struct {
	OutPoint ckbtype.OutPoint
	Output   *ckbtype.CellOutput
	DataLen  int
	Mature   bool
}

// Collector is a plain, mutex-guarded slice of Cells plus a reservation
// set. It implements txdep.CellCollector.
type Collector struct {
	mu        sync.Mutex
	cells     []Cell
	reserved  map[ckbtype.OutPoint]bool
}

// New builds a Collector seeded with cells.
func New(cells ...Cell) *Collector {
	return &Collector{
		cells:    append([]Cell(nil), cells...),
		reserved: make(map[ckbtype.OutPoint]bool),
	}
}

// Add appends a cell to the collector's live set.
func (c *Collector) Add(cell Cell) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cells = append(c.cells, cell)
}

// CollectLiveCells implements txdep.CellCollector.
func (c *Collector) CollectLiveCells(query txdep.CellQueryOptions, reserve bool) ([]txdep.LiveCell, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		out   []txdep.LiveCell
		total uint64
	)
	for _, cell := range c.cells {
		if c.reserved[cell.OutPoint] {
			continue
		}
		if !matches(cell, query) {
			continue
		}
		out = append(out, txdep.LiveCell{OutPoint: cell.OutPoint, Output: cell.Output})
		total += cell.Output.Capacity
		if reserve {
			c.reserved[cell.OutPoint] = true
		}
		if query.MinTotalCapacity != 0 && total >= query.MinTotalCapacity {
			break
		}
	}
	return out, total, nil
}

func matches(cell Cell, query txdep.CellQueryOptions) bool {
	if query.Lock != nil && !cell.Output.Lock.Equal(query.Lock) {
		return false
	}
	if query.RequireNoType && cell.Output.Type != nil {
		return false
	}
	if !query.DataLenRange.Matches(uint64(cell.DataLen)) {
		return false
	}
	if query.MatureOnly && !cell.Mature {
		return false
	}
	return true
}
