package automaton

import (
	"fmt"
	"sort"
)

// acceptKey canonicalizes a state's accept-action set for equivalence
// testing during partition refinement: two states with different winners
// (spec.md §4.D step 3 groups by "accept-action equivalence") are never
// merged, even if both are merely "accepting".
func acceptKey(d *DFA, state int) string {
	winner, _, ok := d.Winner(state)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d:%d:%d:%v", winner.Symbol, winner.Priority, winner.DefOrder, winner.Eager)
}

// Minimize runs partition refinement to fixpoint on accept-action
// equivalence and then transition equivalence (spec.md §4.D step 3
// "compaction"), producing the minimal DFA reachable from d.Start. This
// is the standard Moore-style refinement: start from the partition
// induced by acceptKey, then repeatedly split any block whose members
// disagree on which block a given class's transition lands in, until no
// block splits further.
func Minimize(d *DFA) *DFA {
	n := len(d.States)
	if n == 0 {
		return d
	}

	classes := allClasses(d)

	blockOf := make([]int, n)
	groups := map[string][]int{}
	for s := 0; s < n; s++ {
		k := acceptKey(d, s)
		groups[k] = append(groups[k], s)
	}
	var blocks [][]int
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		blocks = append(blocks, groups[k])
		id := len(blocks) - 1
		for _, s := range groups[k] {
			blockOf[s] = id
		}
	}

	changed := true
	for changed {
		changed = false
		var newBlocks [][]int
		newBlockOf := make([]int, n)

		for _, block := range blocks {
			split := map[string][]int{}
			for _, s := range block {
				split[signature(d, s, classes, blockOf)] = append(split[signature(d, s, classes, blockOf)], s)
			}
			if len(split) > 1 {
				changed = true
			}
			sigKeys := make([]string, 0, len(split))
			for k := range split {
				sigKeys = append(sigKeys, k)
			}
			sort.Strings(sigKeys)
			for _, k := range sigKeys {
				sub := split[k]
				newBlocks = append(newBlocks, sub)
				id := len(newBlocks) - 1
				for _, s := range sub {
					newBlockOf[s] = id
				}
			}
		}
		blocks = newBlocks
		blockOf = newBlockOf
	}

	return rebuild(d, blocks, blockOf)
}

func signature(d *DFA, s int, classes []int, blockOf []int) string {
	sig := ""
	for _, c := range classes {
		to, ok := d.States[s].Transitions[c]
		if !ok {
			sig += fmt.Sprintf("%d:-,", c)
			continue
		}
		sig += fmt.Sprintf("%d:%d,", c, blockOf[to])
	}
	return sig
}

func allClasses(d *DFA) []int {
	set := map[int]bool{}
	for _, st := range d.States {
		for c := range st.Transitions {
			set[c] = true
		}
	}
	var out []int
	for c := range set {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

func rebuild(d *DFA, blocks [][]int, blockOf []int) *DFA {
	out := &DFA{States: make([]DFAState, len(blocks))}
	out.Start = blockOf[d.Start]

	for i, block := range blocks {
		rep := block[0]
		ns := DFAState{Transitions: map[int]int{}}
		for c, to := range d.States[rep].Transitions {
			ns.Transitions[c] = blockOf[to]
		}
		// union accept actions across the block's members so that, in the
		// rare case acceptKey's winner tie matched but loser sets differ
		// (same winning terminal, different shadowed losers), diagnostics
		// about shadowing still see every original accept action.
		seen := map[string]bool{}
		for _, s := range block {
			for _, a := range d.States[s].Accepts {
				key := fmt.Sprintf("%d:%d:%d:%v", a.Symbol, a.Priority, a.DefOrder, a.Eager)
				if !seen[key] {
					seen[key] = true
					ns.Accepts = append(ns.Accepts, a)
				}
			}
		}
		out.States[i] = ns
	}
	return out
}
