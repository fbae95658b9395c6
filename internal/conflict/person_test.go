package conflict

import (
	"errors"
	"testing"

	"bibdb/internal/bibtex"
	"bibdb/internal/entry"
)

// fakePersonStore backs person resolution with an in-memory slice.
type fakePersonStore struct {
	persons []entry.Person
	nextID  int64
}

func (f *fakePersonStore) PersonsByLastName(lastName string) ([]entry.Person, error) {
	var out []entry.Person
	for _, p := range f.persons {
		if p.LastName == lastName {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePersonStore) EnsurePerson(lastName, firstName string) (entry.Person, error) {
	for _, p := range f.persons {
		if p.LastName == lastName && p.FirstName == firstName {
			return p, nil
		}
	}
	f.nextID++
	p := entry.Person{ID: f.nextID, LastName: lastName, FirstName: firstName}
	f.persons = append(f.persons, p)
	return p, nil
}

func (f *fakePersonStore) UpdatePersonFirstName(id int64, firstName string) error {
	for i := range f.persons {
		if f.persons[i].ID == id {
			f.persons[i].FirstName = firstName
			return nil
		}
	}
	return errors.New("no such person")
}

func noDecision(t *testing.T) PersonDecider {
	return func(string, string, []entry.Person) (PersonDecision, error) {
		t.Fatal("decider should not be consulted")
		return PersonDecision{}, nil
	}
}

func TestResolvePersonCreatesWhenUnknown(t *testing.T) {
	ps := &fakePersonStore{}
	person, err := ResolvePerson(ps, bibtex.Name{Last: "smith", First: "john"}, noDecision(t))
	if err != nil {
		t.Fatalf("ResolvePerson failed: %v", err)
	}
	if person.LastName != "smith" || person.FirstName != "john" {
		t.Errorf("person = %+v", person)
	}
	if len(ps.persons) != 1 {
		t.Errorf("store holds %d persons", len(ps.persons))
	}
}

func TestResolvePersonExactMatch(t *testing.T) {
	ps := &fakePersonStore{persons: []entry.Person{
		{ID: 1, LastName: "smith", FirstName: "john"},
		{ID: 2, LastName: "smith", FirstName: "jane"},
	}}
	person, err := ResolvePerson(ps, bibtex.Name{Last: "smith", First: "jane"}, noDecision(t))
	if err != nil {
		t.Fatalf("ResolvePerson failed: %v", err)
	}
	if person.ID != 2 {
		t.Errorf("person = %+v", person)
	}
}

func TestResolvePersonAmbiguousAbort(t *testing.T) {
	ps := &fakePersonStore{persons: []entry.Person{
		{ID: 1, LastName: "smith", FirstName: "john"},
	}}
	_, err := ResolvePerson(ps, bibtex.Name{Last: "smith", First: "j."},
		func(last, first string, candidates []entry.Person) (PersonDecision, error) {
			if last != "smith" || first != "j." || len(candidates) != 1 {
				t.Errorf("decider saw %q %q %v", last, first, candidates)
			}
			return PersonDecision{Action: PersonAbort}, nil
		})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestResolvePersonAmbiguousCreate(t *testing.T) {
	ps := &fakePersonStore{persons: []entry.Person{
		{ID: 1, LastName: "smith", FirstName: "john"},
	}}
	person, err := ResolvePerson(ps, bibtex.Name{Last: "smith", First: "j."},
		func(string, string, []entry.Person) (PersonDecision, error) {
			return PersonDecision{Action: PersonCreate}, nil
		})
	if err != nil {
		t.Fatalf("ResolvePerson failed: %v", err)
	}
	if person.FirstName != "j." || person.ID == 1 {
		t.Errorf("person = %+v", person)
	}
}

func TestResolvePersonUseWithCorrection(t *testing.T) {
	ps := &fakePersonStore{persons: []entry.Person{
		{ID: 1, LastName: "smith", FirstName: "jon"},
	}}
	person, err := ResolvePerson(ps, bibtex.Name{Last: "smith", First: "john"},
		func(string, string, []entry.Person) (PersonDecision, error) {
			return PersonDecision{Action: PersonUse, Index: 0, FirstName: "john"}, nil
		})
	if err != nil {
		t.Fatalf("ResolvePerson failed: %v", err)
	}
	if person.ID != 1 || person.FirstName != "john" {
		t.Errorf("person = %+v", person)
	}
	if ps.persons[0].FirstName != "john" {
		t.Errorf("stored spelling = %q", ps.persons[0].FirstName)
	}
}

func TestResolvePersonUseOutOfRange(t *testing.T) {
	ps := &fakePersonStore{persons: []entry.Person{
		{ID: 1, LastName: "smith", FirstName: "jon"},
	}}
	_, err := ResolvePerson(ps, bibtex.Name{Last: "smith", First: "john"},
		func(string, string, []entry.Person) (PersonDecision, error) {
			return PersonDecision{Action: PersonUse, Index: 3}, nil
		})
	if err == nil {
		t.Fatal("expected error for out-of-range candidate")
	}
}
