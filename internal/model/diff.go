package model

import "sort"

// TypeDelta is the change in the number of nodes of one type.
type TypeDelta struct {
	Type string `json:"type"`
	Old  int    `json:"old"`
	New  int    `json:"new"`
}

// Delta returns New minus Old.
func (t TypeDelta) Delta() int {
	return t.New - t.Old
}

// CategoryChange records a function that moved to another category,
// usually because it was renamed.
type CategoryChange struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Old  Category `json:"old"`
	New  Category `json:"new"`
}

// Diff describes how one export differs from another.
type Diff struct {
	// OldSource and NewSource are the compared export paths.
	OldSource string `json:"oldSource"`
	NewSource string `json:"newSource"`

	// Identical is true when both fingerprints are equal.
	Identical bool `json:"identical"`

	// TypeDeltas lists types whose count changed, sorted by type name.
	TypeDeltas []TypeDelta `json:"typeDeltas,omitempty"`

	AddedPages       []string `json:"addedPages,omitempty"`
	RemovedPages     []string `json:"removedPages,omitempty"`
	AddedEndpoints   []string `json:"addedEndpoints,omitempty"`
	RemovedEndpoints []string `json:"removedEndpoints,omitempty"`

	AddedFunctions   []FunctionRef `json:"addedFunctions,omitempty"`
	RemovedFunctions []FunctionRef `json:"removedFunctions,omitempty"`

	// RecategorizedFunctions lists functions present in both exports
	// whose category changed.
	RecategorizedFunctions []CategoryChange `json:"recategorizedFunctions,omitempty"`

	// ModifiedFunctions lists functions present in both exports whose
	// source code changed. The entries describe the newer version.
	ModifiedFunctions []FunctionRef `json:"modifiedFunctions,omitempty"`
}

// Compare computes the difference from old to current.
func Compare(old, current *Summary) *Diff {
	d := &Diff{
		OldSource: old.Source,
		NewSource: current.Source,
		Identical: old.Fingerprint != "" && old.Fingerprint == current.Fingerprint,
	}

	d.TypeDeltas = typeDeltas(old.TypeCounts, current.TypeCounts)
	d.AddedPages, d.RemovedPages = setDifference(old.Pages, current.Pages)
	d.AddedEndpoints, d.RemovedEndpoints = setDifference(old.Endpoints, current.Endpoints)

	oldFuncs := make(map[string]FunctionRef, len(old.Functions))
	for _, fn := range old.Functions {
		oldFuncs[fn.key()] = fn
	}
	currentFuncs := make(map[string]struct{}, len(current.Functions))

	for _, fn := range current.Functions {
		currentFuncs[fn.key()] = struct{}{}

		prev, ok := oldFuncs[fn.key()]
		if !ok {
			d.AddedFunctions = append(d.AddedFunctions, fn)
			continue
		}
		if prev.Category != fn.Category {
			d.RecategorizedFunctions = append(d.RecategorizedFunctions, CategoryChange{
				ID:   fn.ID,
				Name: fn.Name,
				Old:  prev.Category,
				New:  fn.Category,
			})
		}
		if prev.Digest != fn.Digest {
			d.ModifiedFunctions = append(d.ModifiedFunctions, fn)
		}
	}

	for _, fn := range old.Functions {
		if _, ok := currentFuncs[fn.key()]; !ok {
			d.RemovedFunctions = append(d.RemovedFunctions, fn)
		}
	}

	return d
}

// HasChanges reports whether the diff contains any difference.
func (d *Diff) HasChanges() bool {
	return len(d.TypeDeltas) > 0 ||
		len(d.AddedPages) > 0 || len(d.RemovedPages) > 0 ||
		len(d.AddedEndpoints) > 0 || len(d.RemovedEndpoints) > 0 ||
		len(d.AddedFunctions) > 0 || len(d.RemovedFunctions) > 0 ||
		len(d.RecategorizedFunctions) > 0 || len(d.ModifiedFunctions) > 0
}

func typeDeltas(old, current map[string]int) []TypeDelta {
	names := make(map[string]struct{}, len(old)+len(current))
	for typ := range old {
		names[typ] = struct{}{}
	}
	for typ := range current {
		names[typ] = struct{}{}
	}

	var deltas []TypeDelta
	for typ := range names {
		if old[typ] != current[typ] {
			deltas = append(deltas, TypeDelta{Type: typ, Old: old[typ], New: current[typ]})
		}
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Type < deltas[j].Type
	})
	return deltas
}

// setDifference returns the values only in current and the values only in old,
// each in the order of its own slice.
func setDifference(old, current []string) (added, removed []string) {
	oldSet := make(map[string]struct{}, len(old))
	for _, v := range old {
		oldSet[v] = struct{}{}
	}
	currentSet := make(map[string]struct{}, len(current))
	for _, v := range current {
		currentSet[v] = struct{}{}
		if _, ok := oldSet[v]; !ok {
			added = append(added, v)
		}
	}
	for _, v := range old {
		if _, ok := currentSet[v]; !ok {
			removed = append(removed, v)
		}
	}
	return added, removed
}
