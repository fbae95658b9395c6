package conflict

import (
	"errors"
	"testing"

	"bibdb/internal/entry"
)

// fakeLookup resolves conflicts from a fixed id/title set.
type fakeLookup struct {
	existing []*entry.Item
}

func (f *fakeLookup) FindConflict(id, title string) (*entry.Item, error) {
	for _, it := range f.existing {
		if it.ID == id || it.Title == title {
			return it, nil
		}
	}
	return nil, nil
}

func TestResolveKeyNoConflict(t *testing.T) {
	lookup := &fakeLookup{}
	item := &entry.Item{ID: "smith2020", Title: "Fresh"}

	res, err := ResolveKey(lookup, item, func(*entry.Item) (KeyDecision, error) {
		t.Fatal("decider should not be called without a conflict")
		return KeyDecision{}, nil
	})
	if err != nil {
		t.Fatalf("ResolveKey failed: %v", err)
	}
	if res.ID != "smith2020" || res.Merged != nil {
		t.Errorf("resolution = %+v", res)
	}
}

func TestResolveKeyAbort(t *testing.T) {
	lookup := &fakeLookup{existing: []*entry.Item{{ID: "smith2020", Title: "Old"}}}
	item := &entry.Item{ID: "smith2020", Title: "New"}

	_, err := ResolveKey(lookup, item, func(*entry.Item) (KeyDecision, error) {
		return KeyDecision{Action: KeyAbort}, nil
	})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestResolveKeyMerge(t *testing.T) {
	conflicting := &entry.Item{ID: "smith2020", Title: "Old"}
	lookup := &fakeLookup{existing: []*entry.Item{conflicting}}
	item := &entry.Item{ID: "smith2020", Title: "New"}

	res, err := ResolveKey(lookup, item, func(got *entry.Item) (KeyDecision, error) {
		if got != conflicting {
			t.Errorf("decider saw %v", got)
		}
		return KeyDecision{Action: KeyMerge}, nil
	})
	if err != nil {
		t.Fatalf("ResolveKey failed: %v", err)
	}
	if res.Merged != conflicting || res.ID != "smith2020" {
		t.Errorf("resolution = %+v", res)
	}
	if item.ID != "smith2020" {
		t.Errorf("item id = %q", item.ID)
	}
}

func TestResolveKeyRetryWithNewKey(t *testing.T) {
	lookup := &fakeLookup{existing: []*entry.Item{{ID: "smith2020", Title: "Old"}}}
	item := &entry.Item{ID: "smith2020", Title: "New"}

	calls := 0
	res, err := ResolveKey(lookup, item, func(*entry.Item) (KeyDecision, error) {
		calls++
		return KeyDecision{Action: KeyUse, ID: "smith2020a"}, nil
	})
	if err != nil {
		t.Fatalf("ResolveKey failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("decider called %d times", calls)
	}
	if res.ID != "smith2020a" || res.Merged != nil {
		t.Errorf("resolution = %+v", res)
	}
}

func TestResolveKeyRetryStillConflicting(t *testing.T) {
	lookup := &fakeLookup{existing: []*entry.Item{
		{ID: "smith2020", Title: "Old"},
		{ID: "smith2020a", Title: "Other"},
	}}
	item := &entry.Item{ID: "smith2020", Title: "New"}

	answers := []KeyDecision{
		{Action: KeyUse, ID: "smith2020a"},
		{Action: KeyUse, ID: "smith2020b"},
	}
	res, err := ResolveKey(lookup, item, func(*entry.Item) (KeyDecision, error) {
		d := answers[0]
		answers = answers[1:]
		return d, nil
	})
	if err != nil {
		t.Fatalf("ResolveKey failed: %v", err)
	}
	if res.ID != "smith2020b" {
		t.Errorf("final id = %q", res.ID)
	}
	if len(answers) != 0 {
		t.Errorf("%d scripted answers unused", len(answers))
	}
}
