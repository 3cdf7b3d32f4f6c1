package app

import (
	"sort"
	"strconv"
	"strings"
)

// tabSortKey is the display-ordering key for one dashboard tab. Declared
// itineraries come first, ordered by their numeric ID; undeclared data files
// follow in file-name order. Kept independent of any HTTP framework so the
// ordering is testable on its own.
type tabSortKey struct {
	declared  bool
	numericID int
	hasNumber bool
	fallback  string
}

func (k tabSortKey) less(other tabSortKey) bool {
	if k.declared != other.declared {
		return k.declared
	}
	if k.hasNumber && other.hasNumber && k.numericID != other.numericID {
		return k.numericID < other.numericID
	}
	if k.hasNumber != other.hasNumber {
		return k.hasNumber
	}
	return k.fallback < other.fallback
}

// sortKeyFor builds the key for a data file given the config's file-to-ID
// mapping. IDs like "2" order numerically; anything else falls back to
// string order after the numeric ones.
func sortKeyFor(idByFile map[string]string, file string) tabSortKey {
	if id, ok := idByFile[file]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
			return tabSortKey{declared: true, numericID: n, hasNumber: true, fallback: file}
		}
		return tabSortKey{declared: true, fallback: id}
	}
	return tabSortKey{fallback: file}
}

// OrderDataFiles sorts data files for tab display: declared itineraries
// first by parsed ID, the rest by file name.
func OrderDataFiles(idByFile map[string]string, files []string) []string {
	ordered := make([]string, len(files))
	copy(ordered, files)
	sort.SliceStable(ordered, func(i, j int) bool {
		return sortKeyFor(idByFile, ordered[i]).less(sortKeyFor(idByFile, ordered[j]))
	})
	return ordered
}
