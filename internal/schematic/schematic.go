// Package schematic derives a flat summary from a decoded NBT schematic:
// block palette usage, total block count, dimensions, and the set of mod
// namespaces the schematic depends on.
package schematic

import (
	"fmt"
	"strings"

	"github.com/schemview/schemview/internal/logger"
	"github.com/schemview/schemview/internal/nbt"
)

// The base game claims this namespace; its blocks are counted but never
// listed as a mod dependency.
const baseNamespace = "minecraft"

// railwaysVersionKey is an auxiliary root key written by Steam 'n' Rails.
// Its presence marks the schematic as depending on that mod even when no
// palette entry carries the namespace.
const railwaysVersionKey = "Railways_DataVersion"

const railwaysNamespace = "railways"

// ModResolver maps a mod namespace to a display name. Implementations are
// total: unknown namespaces resolve to themselves.
type ModResolver interface {
	DisplayName(namespace string) string
}

// VersionResolver maps a DataVersion to a release label. Implementations
// are total: unknown versions resolve to an "unknown" label.
type VersionResolver interface {
	Label(dataVersion int32) string
}

// BlockCount pairs a fully qualified block name with its occurrence count
// in the block grid.
type BlockCount struct {
	Name  string
	Count int
}

// Summary is the read-only result of extraction. It is built once per
// decode and never mutated afterwards.
type Summary struct {
	Version     string
	TotalBlocks int
	Width       int
	Height      int
	Length      int
	Mods        []string
	Blocks      []BlockCount
}

// Extractor walks a decoded root compound and produces a Summary.
type Extractor struct {
	mods     ModResolver
	versions VersionResolver
	log      logger.Logger
}

func NewExtractor(mods ModResolver, versions VersionResolver, log logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{mods: mods, versions: versions, log: log}
}

// Extract requires the root to carry palette (list), blocks (list) and size
// (int array of three). Any shape violation fails with ErrInvalidStructure;
// no partial summary is returned.
func (x *Extractor) Extract(root *nbt.Compound) (*Summary, error) {
	if root == nil {
		return nil, structural("missing root compound")
	}
	palette, ok := root.GetList("palette")
	if !ok {
		return nil, structural("missing or mistyped palette list")
	}
	blocks, ok := root.GetList("blocks")
	if !ok {
		return nil, structural("missing or mistyped blocks list")
	}
	size, ok := root.GetIntArray("size")
	if !ok {
		return nil, structural("missing or mistyped size array")
	}
	if len(size) != 3 {
		return nil, structural("size array has %d entries, want 3", len(size))
	}

	names := paletteNames(palette)
	mods := x.detectMods(root, names)
	counts := countBlocks(blocks, names)

	var version string
	if dv, ok := root.GetInt("DataVersion"); ok {
		version = x.versions.Label(dv)
	} else {
		version = x.versions.Label(0)
		x.log.Warn("schematic has no DataVersion tag")
	}

	return &Summary{
		Version:     version,
		TotalBlocks: len(blocks.Items),
		Width:       int(size[0]),
		Height:      int(size[1]),
		Length:      int(size[2]),
		Mods:        mods,
		Blocks:      counts,
	}, nil
}

// paletteNames returns the Name of each palette entry, indexed by palette
// position. Entries without a usable Name stay empty and are skipped by
// the counting pass.
func paletteNames(palette nbt.List) []string {
	names := make([]string, len(palette.Items))
	for i, item := range palette.Items {
		entry, ok := item.(*nbt.Compound)
		if !ok {
			continue
		}
		if name, ok := entry.GetString("Name"); ok {
			names[i] = name
		}
	}
	return names
}

// detectMods walks the palette in order and collects the display name of
// every non-base namespace, deduplicated, first occurrence first.
func (x *Extractor) detectMods(root *nbt.Compound, names []string) []string {
	var mods []string
	seen := make(map[string]bool)
	for _, name := range names {
		if name == "" {
			continue
		}
		ns := namespaceOf(name)
		if ns == baseNamespace {
			continue
		}
		display := x.mods.DisplayName(ns)
		if !seen[display] {
			seen[display] = true
			mods = append(mods, display)
		}
	}
	if _, ok := root.Get(railwaysVersionKey); ok {
		display := x.mods.DisplayName(railwaysNamespace)
		if !seen[display] {
			seen[display] = true
			mods = append(mods, display)
		}
	}
	return mods
}

// countBlocks tallies occurrences per palette name. Every named palette
// entry starts at zero so unused block types exist in the tally; only
// strictly positive counts survive into the result, in palette order.
func countBlocks(blocks nbt.List, names []string) []BlockCount {
	counts := make(map[string]int, len(names))
	for _, name := range names {
		if name != "" {
			counts[name] = 0
		}
	}
	for _, item := range blocks.Items {
		entry, ok := item.(*nbt.Compound)
		if !ok {
			continue
		}
		state, ok := entry.GetInt("state")
		if !ok {
			continue
		}
		if state < 0 || int(state) >= len(names) {
			continue
		}
		if name := names[state]; name != "" {
			counts[name]++
		}
	}
	out := make([]BlockCount, 0, len(counts))
	for _, name := range dedupe(names) {
		if counts[name] > 0 {
			out = append(out, BlockCount{Name: name, Count: counts[name]})
		}
	}
	return out
}

// namespaceOf splits a qualified block id on the first separator. Names
// without a namespace belong to the base game.
func namespaceOf(name string) string {
	if ns, _, ok := strings.Cut(name, ":"); ok {
		return ns
	}
	return baseNamespace
}

// dedupe keeps the first occurrence of each non-empty name, in order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func structural(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), nbt.ErrInvalidStructure)
}
