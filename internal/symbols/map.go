package symbols

import (
	"sort"
	"strconv"
)

// Map partitions the input alphabet into disjoint classes, each addressed
// by a stable integer id (spec.md §3 "Symbol map", §4.A).
//
// Grounded on TameParse/Dfa/remapped_symbol_map.h's identifier_for_symbols
// / deduplicate pair (original_source): a symbol_map that assigns ids to
// sets of symbols, plus a factory that rebuilds one with no overlapping
// cells.
type Map struct {
	cells  []Set
	nextID int
}

// NewMap returns an empty symbol map. Class id 0 is reserved for nothing
// in particular; IdentifierFor hands out ids starting at 0 for the first
// cell it sees.
func NewMap() *Map {
	return &Map{}
}

// IdentifierFor returns the class id for the given set. If the set
// already exists as a stored cell, its id is returned; otherwise a new
// cell is inserted and its fresh id returned.
func (m *Map) IdentifierFor(s Set) int {
	for id, cell := range m.cells {
		if cell.Equal(s) {
			return id
		}
	}
	id := len(m.cells)
	m.cells = append(m.cells, s)
	return id
}

// Cell returns the Set stored under the given class id, or the empty set
// if id is out of range.
func (m *Map) Cell(id int) Set {
	if id < 0 || id >= len(m.cells) {
		return Set{}
	}
	return m.cells[id]
}

// NumClasses returns the number of distinct classes registered so far.
func (m *Map) NumClasses() int {
	return len(m.cells)
}

// boundary is an endpoint of some source range tagged with whether it
// opens (+1) or closes (-1) that range's membership of a given source
// cell id.
type boundary struct {
	at    int
	delta int
	cell  int
}

// Deduplicate builds a new Map whose stored cells are pairwise disjoint
// but whose union, cell-for-cell, equals the union of source's cells.
// Two distinct input values land in the same output cell iff they belong
// to exactly the same set of source cells — i.e. iff every pattern that
// accepts one accepts the other (spec.md §3's "Symbol map" invariant).
//
// The algorithm walks every boundary of every source range, tracks which
// set of source cell ids is "open" between consecutive boundaries, and
// emits one output range per maximal run with a constant open-set,
// coalescing adjacent runs that happen to carry the same open-set (this
// is the split-then-coalesce shape TameParse's remapped_symbol_map uses).
//
// The returned slice gives, for each source cell id (indexed by position
// in source.cells), the list of new class ids that together union to that
// source cell — the "new_symbols" query TameParse exposes for this
// purpose.
func Deduplicate(source *Map) (dedup *Map, newSymbolsOf [][]int) {
	dedup = NewMap()
	newSymbolsOf = make([][]int, len(source.cells))

	var bounds []boundary
	for cellID, cell := range source.cells {
		for _, r := range cell.Ranges() {
			bounds = append(bounds, boundary{at: r.Lo, delta: 1, cell: cellID})
			bounds = append(bounds, boundary{at: r.Hi, delta: -1, cell: cellID})
		}
	}
	if len(bounds) == 0 {
		return dedup, newSymbolsOf
	}

	sort.Slice(bounds, func(i, j int) bool {
		if bounds[i].at != bounds[j].at {
			return bounds[i].at < bounds[j].at
		}
		// closes before opens at the same point, so a [x,y) followed
		// immediately by [y,z) doesn't get treated as overlapping at y.
		return bounds[i].delta < bounds[j].delta
	})

	open := map[int]int{} // source cell id -> number of ranges currently open
	var points []int
	for _, b := range bounds {
		points = append(points, b.at)
	}

	// classIDForOpenSet (below) remembers, for each distinct open-set,
	// which output class id was minted for it, so every run sharing that
	// open-set lands in the same output class; adjacent ranges of one
	// class are coalesced into a single range by Set.Add at the end.
	type pendingRange struct {
		lo      int
		openSet map[int]bool
		classID int
	}
	var pending *pendingRange
	var outRanges []Range
	outClassForRange := map[int]int{} // index into outRanges -> class id

	openSetKey := func(o map[int]int) string {
		var ids []int
		for id, n := range o {
			if n > 0 {
				ids = append(ids, id)
			}
		}
		sort.Ints(ids)
		key := ""
		for _, id := range ids {
			key += "," + strconv.Itoa(id)
		}
		return key
	}

	classIDForOpenSet := map[string]int{}

	i := 0
	for i < len(bounds) {
		cur := bounds[i].at
		for i < len(bounds) && bounds[i].at == cur {
			open[bounds[i].cell] += bounds[i].delta
			i++
		}

		// the interval [cur, next) (next is the following distinct point,
		// or we stop here if this was the last point) has the open-set
		// we've just updated.
		if pending != nil {
			// close off the pending range at cur.
			outRanges = append(outRanges, Range{Lo: pending.lo, Hi: cur})
			outClassForRange[len(outRanges)-1] = pending.classID
			pending = nil
		}

		if i >= len(bounds) {
			break
		}

		key := openSetKey(open)
		hasAny := false
		for _, n := range open {
			if n > 0 {
				hasAny = true
				break
			}
		}
		if !hasAny {
			continue
		}

		classID, ok := classIDForOpenSet[key]
		if !ok {
			classID = dedup.newCellID()
			classIDForOpenSet[key] = classID
			var memberCells []int
			for id, n := range open {
				if n > 0 {
					memberCells = append(memberCells, id)
				}
			}
			sort.Ints(memberCells)
			for _, cid := range memberCells {
				newSymbolsOf[cid] = append(newSymbolsOf[cid], classID)
			}
		}
		pending = &pendingRange{lo: cur, classID: classID}
	}

	// build final sets per class id, coalescing adjacent ranges of the
	// same class automatically via Set.Add.
	byClass := map[int]*Set{}
	for idx, r := range outRanges {
		cid := outClassForRange[idx]
		s, ok := byClass[cid]
		if !ok {
			s = &Set{}
			byClass[cid] = s
		}
		s.Add(r)
	}
	dedup.cells = make([]Set, dedup.nextID)
	for cid, s := range byClass {
		dedup.cells[cid] = *s
	}

	// dedupe newSymbolsOf entries (a source cell can pick up the same
	// new class id from multiple disjoint runs).
	for cid := range newSymbolsOf {
		newSymbolsOf[cid] = dedupeInts(newSymbolsOf[cid])
	}

	return dedup, newSymbolsOf
}

func (m *Map) newCellID() int {
	id := m.nextID
	m.nextID++
	return id
}

func dedupeInts(in []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}

