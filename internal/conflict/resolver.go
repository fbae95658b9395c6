package conflict

import (
	"fmt"

	"bibdb/internal/entry"
)

// Lookup abstracts the store query the key resolver needs.
type Lookup interface {
	// FindConflict returns an existing item matching the id or the title,
	// or nil when there is none.
	FindConflict(id, title string) (*entry.Item, error)
}

// KeyResolution is the outcome of the citation-key loop.
type KeyResolution struct {
	// ID is the final citation key.
	ID string
	// Merged is the existing item chosen as merge target, nil when the key
	// resolved without merging. The caller applies the field copy,
	// re-points the authorship, and appends attachments.
	Merged *entry.Item
}

// ResolveKey runs the citation-key conflict loop for an item whose ID holds
// the candidate key. It looks up any existing item with the same id or the
// same title and, while one exists, asks the decider whether to abort,
// merge into the existing item, or retry with a supplied key.
func ResolveKey(lookup Lookup, item *entry.Item, decide KeyDecider) (KeyResolution, error) {
	for {
		conflicting, err := lookup.FindConflict(item.ID, item.Title)
		if err != nil {
			return KeyResolution{}, err
		}
		if conflicting == nil {
			return KeyResolution{ID: item.ID}, nil
		}

		decision, err := decide(conflicting)
		if err != nil {
			return KeyResolution{}, err
		}
		switch decision.Action {
		case KeyAbort:
			return KeyResolution{}, fmt.Errorf("citation conflict with %s: %w", conflicting.ID, ErrAborted)
		case KeyMerge:
			item.ID = conflicting.ID
			return KeyResolution{ID: conflicting.ID, Merged: conflicting}, nil
		case KeyUse:
			item.ID = decision.ID
		default:
			return KeyResolution{}, fmt.Errorf("invalid key decision %d", decision.Action)
		}
	}
}
