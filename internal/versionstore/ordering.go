package versionstore

import (
	"cmp"
	"slices"
)

func compareNewestFirst(a, b Version) int {
	if c := cmp.Compare(b.Timestamp(), a.Timestamp()); c != 0 {
		return c
	}
	return cmp.Compare(b.Seq, a.Seq)
}

// SortNewestFirst orders versions by timestamp descending. Equal timestamps
// resolve to the later insertion first.
func SortNewestFirst(versions []Version) {
	slices.SortStableFunc(versions, compareNewestFirst)
}

// Newest returns the most recent version, or false when versions is empty.
func Newest(versions []Version) (Version, bool) {
	if len(versions) == 0 {
		return Version{}, false
	}
	return slices.MinFunc(versions, compareNewestFirst), true
}
