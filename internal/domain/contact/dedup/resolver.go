// Package dedup decides whether a candidate record is new, an update of a stored
// contact, or a duplicate the caller chose not to overwrite.
package dedup

import (
	"strings"

	"github.com/kailas-cloud/cardex/internal/domain/contact"
)

// Action is the outcome of duplicate resolution.
type Action string

const (
	// ActionCreate stores the candidate as a new contact.
	ActionCreate Action = "create"
	// ActionUpdateExisting overwrites the matched contact in place.
	ActionUpdateExisting Action = "update_existing"
	// ActionRejectDuplicate leaves storage untouched.
	ActionRejectDuplicate Action = "reject_duplicate"
)

const (
	// minNationalDigits is the shortest number compared after a country code is dropped.
	minNationalDigits = 8
	// maxCountryCodeDigits bounds the prefix that may be present on only one side.
	maxCountryCodeDigits = 3
)

// MatchKey is the normalized form used for comparison only.
type MatchKey struct {
	Phone         string // digits only, international "00" prefix dropped
	International bool   // phone was written with a leading '+' or "00"
	Email         string // lower-cased, trimmed
}

// KeyOf normalizes the phone and e-mail of r.
func KeyOf(r contact.Record) MatchKey {
	return MatchKey{
		Phone:         normalizePhone(r.Phone),
		International: isInternational(r.Phone),
		Email:         strings.ToLower(strings.TrimSpace(r.Email)),
	}
}

// IsZero reports whether the key can never match anything.
func (k MatchKey) IsZero() bool { return k.Phone == "" && k.Email == "" }

// Matches reports whether k and other share a non-empty phone or e-mail.
func (k MatchKey) Matches(other MatchKey) bool {
	if samePhone(k, other) {
		return true
	}
	return k.Email != "" && k.Email == other.Email
}

// samePhone compares normalized digits. Besides exact equality, a number written
// with a country code matches the same number written without one: only the
// international side may carry up to maxCountryCodeDigits extra leading digits, and
// the national side must still have minNationalDigits. Any other overlap, such as a
// truncated OCR read, is not a match.
func samePhone(a, b MatchKey) bool {
	if a.Phone == "" || b.Phone == "" {
		return false
	}
	if a.Phone == b.Phone {
		return true
	}
	if len(a.Phone) < len(b.Phone) {
		a, b = b, a
	}
	if !a.International || b.International {
		return false
	}
	extra := len(a.Phone) - len(b.Phone)
	return extra <= maxCountryCodeDigits && len(b.Phone) >= minNationalDigits && strings.HasSuffix(a.Phone, b.Phone)
}

// Decision is a final resolver outcome. Key is empty for ActionCreate.
type Decision struct {
	Action Action
	Key    string
}

// Proposal is the first phase of resolution: what the resolver suggests before the
// caller confirms an overwrite.
type Proposal struct {
	Action   Action
	Existing *contact.Contact // set when Action is ActionUpdateExisting
}

// Key returns the matched contact ID, or "" when nothing matched.
func (p Proposal) Key() string {
	if p.Existing == nil {
		return ""
	}
	return p.Existing.ID()
}

// Commit turns the proposal into a decision. A declined update becomes
// ActionRejectDuplicate; confirmed has no effect on ActionCreate.
func (p Proposal) Commit(confirmed bool) Decision {
	if p.Action != ActionUpdateExisting {
		return Decision{Action: ActionCreate}
	}
	if confirmed {
		return Decision{Action: ActionUpdateExisting, Key: p.Key()}
	}
	return Decision{Action: ActionRejectDuplicate, Key: p.Key()}
}

// Propose scans index in the given order and returns the first contact sharing the
// candidate's normalized phone or e-mail.
func Propose(candidate contact.Record, index []contact.Contact) Proposal {
	key := KeyOf(candidate)
	if key.IsZero() {
		return Proposal{Action: ActionCreate}
	}
	for i := range index {
		if key.Matches(KeyOf(index[i].Record())) {
			existing := index[i]
			return Proposal{Action: ActionUpdateExisting, Existing: &existing}
		}
	}
	return Proposal{Action: ActionCreate}
}

// ConfirmFunc asks the caller whether existing may be overwritten by candidate.
type ConfirmFunc func(existing contact.Contact, candidate contact.Record) bool

// Resolve runs Propose and, on a match, Commit with the answer of confirm.
// A nil confirm declines.
func Resolve(candidate contact.Record, index []contact.Contact, confirm ConfirmFunc) Decision {
	p := Propose(candidate, index)
	if p.Action != ActionUpdateExisting {
		return p.Commit(false)
	}
	return p.Commit(confirm != nil && confirm(*p.Existing, candidate))
}

func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return strings.TrimPrefix(b.String(), "00")
}

func isInternational(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "+") || strings.HasPrefix(s, "00")
}
