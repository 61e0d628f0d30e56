// Package config holds the builder's tunable knobs (spec.md's rewriter
// order and minimize/weak-promotion toggles), loaded from TOML the way
// dekarrin-tunaq loads its own server/game settings structs.
package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// RewriteKind names one of the three action-set rewriter passes spec.md
// §4.H lists, in their default application order.
type RewriteKind string

const (
	RewriteWeakSymbol      RewriteKind = "weak_symbol"
	RewriteLR1Conflict     RewriteKind = "lr1_conflict"
	RewriteConflictResolve RewriteKind = "conflict_resolution"
)

// BuildOptions are the knobs a Generate call accepts (SPEC_FULL.md
// expansion of internal/config): whether to run DFA/symbol-class
// minimization, in what order to run the three rewriters, and whether
// weak-symbol promotion is active at all.
type BuildOptions struct {
	Minimize      bool          `toml:"minimize"`
	RewriteOrder  []RewriteKind `toml:"rewrite_order"`
	WeakPromotion bool          `toml:"weak_promotion"`
}

// DefaultOptions matches spec.md's described default pipeline: minimize
// on, rewriters in the §4.H order, weak promotion on.
func DefaultOptions() BuildOptions {
	return BuildOptions{
		Minimize: true,
		RewriteOrder: []RewriteKind{
			RewriteWeakSymbol,
			RewriteLR1Conflict,
			RewriteConflictResolve,
		},
		WeakPromotion: true,
	}
}

// Load decodes BuildOptions from TOML text, starting from DefaultOptions
// so an omitted field keeps its default rather than zeroing out.
func Load(r io.Reader) (BuildOptions, error) {
	opts := DefaultOptions()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return opts, fmt.Errorf("config: read: %w", err)
	}
	if _, err := toml.Decode(buf.String(), &opts); err != nil {
		return opts, fmt.Errorf("config: decode: %w", err)
	}
	return opts, nil
}

// LoadString is a convenience wrapper around Load for an in-memory TOML
// document (tests, embedded defaults).
func LoadString(doc string) (BuildOptions, error) {
	return Load(bytes.NewBufferString(doc))
}
