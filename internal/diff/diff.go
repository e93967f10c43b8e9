// Package diff compares two snapshots of folders or feeds.
//
// Elements are compared by their full diff key, not by id. A feed that was
// renamed or moved shows up as removed under its old key and added under its
// new one.
package diff

import "github.com/jdholdren/newsync/internal/newsync"

// Diff returns the elements of next not in prev (added) and the elements of
// prev not in next (removed). Both keep the order of the slice they came from.
func Diff[E any, K comparable](prev, next []E, key func(E) K) (added, removed []E) {
	prevKeys := make(map[K]struct{}, len(prev))
	for _, e := range prev {
		prevKeys[key(e)] = struct{}{}
	}
	nextKeys := make(map[K]struct{}, len(next))
	for _, e := range next {
		nextKeys[key(e)] = struct{}{}
	}

	added = []E{}
	for _, e := range next {
		if _, ok := prevKeys[key(e)]; !ok {
			added = append(added, e)
		}
	}
	removed = []E{}
	for _, e := range prev {
		if _, ok := nextKeys[key(e)]; !ok {
			removed = append(removed, e)
		}
	}

	return added, removed
}

func Folders(prev, next []newsync.Folder) (added, removed []newsync.Folder) {
	return Diff(prev, next, newsync.Folder.DiffKey)
}

func Feeds(prev, next []newsync.Feed) (added, removed []newsync.Feed) {
	return Diff(prev, next, newsync.Feed.DiffKey)
}

// IDs collects ids out of a slice of elements.
func IDs[E any](elems []E, id func(E) int64) []int64 {
	ids := make([]int64, 0, len(elems))
	for _, e := range elems {
		ids = append(ids, id(e))
	}
	return ids
}
