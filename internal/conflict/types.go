// Package conflict computes citation keys and resolves the collisions and
// identity ambiguities that come up while storing entries. The resolution
// logic is pure: every decision point calls back into a caller-supplied
// decision function, so the CLI can prompt while tests script answers.
package conflict

import (
	"errors"

	"bibdb/internal/entry"
)

// ErrAborted is the clean cancellation signal from any decision function.
// The caller rolls back the whole in-progress transaction.
var ErrAborted = errors.New("aborted")

// KeyAction selects how a citation-key collision is handled.
type KeyAction int

const (
	// KeyAbort cancels the whole import; no mutation survives.
	KeyAbort KeyAction = iota
	// KeyMerge copies the new item's fields onto the conflicting item and
	// continues with the merged item.
	KeyMerge
	// KeyUse retries the lookup with a caller-supplied literal key.
	KeyUse
)

// KeyDecision is the answer to a citation-key conflict.
type KeyDecision struct {
	Action KeyAction
	ID     string // new citation key for KeyUse
}

// KeyDecider is consulted with the existing conflicting item. A collision
// can mean a true duplicate or a legitimate clash between unrelated papers
// sharing author and year; only the caller can tell which.
type KeyDecider func(conflicting *entry.Item) (KeyDecision, error)

// PersonAction selects how an ambiguous person match is handled.
type PersonAction int

const (
	// PersonAbort cancels the whole import.
	PersonAbort PersonAction = iota
	// PersonCreate records a genuinely new person.
	PersonCreate
	// PersonUse binds to one of the presented candidates.
	PersonUse
)

// PersonDecision is the answer to an ambiguous (last name, first name)
// match. FirstName, when non-empty, overrides the spelling: for
// PersonCreate it names the new person, for PersonUse it corrects the
// chosen candidate's stored first name.
type PersonDecision struct {
	Action    PersonAction
	Index     int // candidate index for PersonUse
	FirstName string
}

// PersonDecider is consulted with the incoming name parts and the full
// candidate list sharing the last name.
type PersonDecider func(lastName, firstName string, candidates []entry.Person) (PersonDecision, error)

// JournalAction selects how an unresolvable journal name is handled.
type JournalAction int

const (
	// JournalAbort cancels the whole import.
	JournalAbort JournalAction = iota
	// JournalRetry retries the index lookup with a corrected name.
	JournalRetry
	// JournalCreate records the journal from a supplied full triple.
	JournalCreate
)

// JournalDecision is the answer to a journal name that matched neither the
// full-text index nor the store.
type JournalDecision struct {
	Action    JournalAction
	Name      string
	Abbr      string // JournalCreate only
	AbbrNoDot string // JournalCreate only
}

// JournalDecider is consulted with the name that failed to resolve.
type JournalDecider func(name string) (JournalDecision, error)
