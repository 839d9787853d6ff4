// Package mcdata carries the lookup tables the extractor resolves against:
// DataVersion to release label, and mod namespace to display name.
package mcdata

import "fmt"

type versionEntry struct {
	dataVersion int32
	label       string
}

// releaseTable maps the first DataVersion of each tracked release to its
// label, ascending. A version between two entries belongs to the earlier
// release's snapshot line.
var releaseTable = []versionEntry{
	{1139, "1.12"},
	{1343, "1.12.2"},
	{1519, "1.13"},
	{1631, "1.13.2"},
	{1952, "1.14"},
	{1976, "1.14.4"},
	{2225, "1.15"},
	{2230, "1.15.2"},
	{2566, "1.16"},
	{2586, "1.16.5"},
	{2724, "1.17"},
	{2730, "1.17.1"},
	{2860, "1.18"},
	{2975, "1.18.2"},
	{3105, "1.19"},
	{3120, "1.19.2"},
	{3337, "1.19.4"},
	{3463, "1.20"},
	{3465, "1.20.1"},
	{3700, "1.20.4"},
	{3839, "1.20.6"},
	{3953, "1.21"},
	{3955, "1.21.1"},
	{4189, "1.21.4"},
	{4325, "1.21.5"},
}

// VersionTable resolves DataVersions to release labels. It is a total
// resolver: anything below the earliest tracked release reports unknown.
type VersionTable struct {
	entries []versionEntry
}

// Versions returns the built-in release table.
func Versions() *VersionTable {
	return &VersionTable{entries: releaseTable}
}

// Label returns the label of the newest release whose first DataVersion is
// at or below v. Versions past an exact entry get a "+" suffix to show they
// are snapshots of the following release line.
func (t *VersionTable) Label(v int32) string {
	idx := -1
	for i, e := range t.entries {
		if e.dataVersion > v {
			break
		}
		idx = i
	}
	if idx < 0 {
		return "unknown"
	}
	e := t.entries[idx]
	if e.dataVersion == v {
		return e.label
	}
	return fmt.Sprintf("%s+ (data version %d)", e.label, v)
}
