package conflict

import (
	"fmt"

	"bibdb/internal/bibtex"
	"bibdb/internal/entry"
)

// PersonStore abstracts the store operations person resolution needs.
// *store.Tx satisfies it.
type PersonStore interface {
	PersonsByLastName(lastName string) ([]entry.Person, error)
	EnsurePerson(lastName, firstName string) (entry.Person, error)
	UpdatePersonFirstName(id int64, firstName string) error
}

// ResolvePerson finds or creates the person record for a parsed name.
//
// No person shares the last name: a new record is created. Exactly one
// candidate also matches the first name: it is reused. Otherwise the match
// is ambiguous and the decider picks between aborting, creating a new
// person (optionally respelling the first name), or binding to a candidate
// (optionally correcting its stored first name).
func ResolvePerson(ps PersonStore, name bibtex.Name, decide PersonDecider) (entry.Person, error) {
	candidates, err := ps.PersonsByLastName(name.Last)
	if err != nil {
		return entry.Person{}, err
	}
	if len(candidates) == 0 {
		return ps.EnsurePerson(name.Last, name.First)
	}
	for _, candidate := range candidates {
		if candidate.FirstName == name.First {
			return candidate, nil
		}
	}

	decision, err := decide(name.Last, name.First, candidates)
	if err != nil {
		return entry.Person{}, err
	}
	switch decision.Action {
	case PersonAbort:
		return entry.Person{}, fmt.Errorf("ambiguous person %s, %s: %w", name.Last, name.First, ErrAborted)
	case PersonCreate:
		firstName := name.First
		if decision.FirstName != "" {
			firstName = decision.FirstName
		}
		return ps.EnsurePerson(name.Last, firstName)
	case PersonUse:
		if decision.Index < 0 || decision.Index >= len(candidates) {
			return entry.Person{}, fmt.Errorf("person candidate %d out of range", decision.Index)
		}
		person := candidates[decision.Index]
		if decision.FirstName != "" && decision.FirstName != person.FirstName {
			if err := ps.UpdatePersonFirstName(person.ID, decision.FirstName); err != nil {
				return entry.Person{}, err
			}
			person.FirstName = decision.FirstName
		}
		return person, nil
	}
	return entry.Person{}, fmt.Errorf("invalid person decision %d", decision.Action)
}
