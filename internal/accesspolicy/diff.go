// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package accesspolicy

// Changes is the output of Diff: the minimal set of storage mutations that
// moves the existing policy set to the desired one.  The three sets are
// pairwise disjoint and carry no ordering.
type Changes struct {
	// Create holds the desired flags for resources with no existing policy.
	Create map[string]Flags

	// Update holds the desired flags for resources whose existing policy has
	// different flags.
	Update map[string]Flags

	// Delete holds the resource ids whose policies are no longer desired.
	Delete []string
}

// IsZero reports whether applying the changes would be a no-op.
func (c Changes) IsZero() bool {
	return len(c.Create) == 0 && len(c.Update) == 0 && len(c.Delete) == 0
}

// Diff computes the changes needed to reconcile the existing policy set with
// the desired one, for a single principal against one resource collection.
// Both maps are keyed by resource id.  Resources with identical flags on both
// sides appear in none of the output sets.  Diff performs no I/O; the caller
// is responsible for reading a consistent snapshot of existing and applying
// the result atomically.
func Diff(existing, desired map[string]Flags) Changes {
	changes := Changes{
		Create: make(map[string]Flags),
		Update: make(map[string]Flags),
	}
	for resourceId, want := range desired {
		have, ok := existing[resourceId]
		switch {
		case !ok:
			changes.Create[resourceId] = want
		case have != want:
			changes.Update[resourceId] = want
		}
	}
	for resourceId := range existing {
		if _, ok := desired[resourceId]; !ok {
			changes.Delete = append(changes.Delete, resourceId)
		}
	}
	return changes
}
