package contact

import (
	"fmt"
	"strings"
	"time"
)

// Field names a contact attribute.
type Field string

// Contact fields.
const (
	FieldName     Field = "name"
	FieldCompany  Field = "company"
	FieldPosition Field = "position"
	FieldPhone    Field = "phone"
	FieldEmail    Field = "email"
	FieldWebsite  Field = "website"
	FieldNotes    Field = "notes"
)

// Fields lists every field in display order.
var Fields = []Field{FieldName, FieldCompany, FieldPosition, FieldPhone, FieldEmail, FieldWebsite, FieldNotes}

// Record is the structured result of reading a business card.
// Every field is optional; an empty string means "not found".
type Record struct {
	Name     string
	Company  string
	Position string
	Phone    string
	Email    string
	Website  string
	Notes    string
}

// Get returns the value of a field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldCompany:
		return r.Company
	case FieldPosition:
		return r.Position
	case FieldPhone:
		return r.Phone
	case FieldEmail:
		return r.Email
	case FieldWebsite:
		return r.Website
	case FieldNotes:
		return r.Notes
	default:
		return ""
	}
}

// IsEmpty reports whether no field is set.
func (r Record) IsEmpty() bool {
	for _, f := range Fields {
		if r.Get(f) != "" {
			return false
		}
	}
	return true
}

// Persistable reports whether the record carries at least a name, phone or email.
func (r Record) Persistable() bool {
	return r.Name != "" || r.Phone != "" || r.Email != ""
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (r Record) Trimmed() Record {
	return Record{
		Name:     strings.TrimSpace(r.Name),
		Company:  strings.TrimSpace(r.Company),
		Position: strings.TrimSpace(r.Position),
		Phone:    strings.TrimSpace(r.Phone),
		Email:    strings.TrimSpace(r.Email),
		Website:  strings.TrimSpace(r.Website),
		Notes:    strings.TrimSpace(r.Notes),
	}
}

// MergeFrom returns r with every non-empty field of other applied on top.
func (r Record) MergeFrom(other Record) Record {
	pick := func(cur, next string) string {
		if next != "" {
			return next
		}
		return cur
	}
	return Record{
		Name:     pick(r.Name, other.Name),
		Company:  pick(r.Company, other.Company),
		Position: pick(r.Position, other.Position),
		Phone:    pick(r.Phone, other.Phone),
		Email:    pick(r.Email, other.Email),
		Website:  pick(r.Website, other.Website),
		Notes:    pick(r.Notes, other.Notes),
	}
}

// Contact is a persisted record owned by a user (immutable value object).
type Contact struct {
	id        string
	userID    string
	record    Record
	createdAt time.Time
	updatedAt time.Time
}

// New validates and creates a Contact. The record must be persistable.
func New(id, userID string, rec Record, now time.Time) (Contact, error) {
	if id == "" {
		return Contact{}, fmt.Errorf("contact ID is required")
	}
	if userID == "" {
		return Contact{}, fmt.Errorf("user ID is required")
	}
	if strings.Contains(userID, ":") {
		return Contact{}, fmt.Errorf("user ID must not contain ':'")
	}
	rec = rec.Trimmed()
	if !rec.Persistable() {
		return Contact{}, fmt.Errorf("contact needs a name, phone or email")
	}
	return Contact{id: id, userID: userID, record: rec, createdAt: now, updatedAt: now}, nil
}

// Reconstruct creates a Contact without validation (storage hydration).
func Reconstruct(id, userID string, rec Record, createdAt, updatedAt time.Time) Contact {
	return Contact{id: id, userID: userID, record: rec, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the contact identifier.
func (c *Contact) ID() string { return c.id }

// UserID returns the owning user.
func (c *Contact) UserID() string { return c.userID }

// Record returns the contact fields.
func (c *Contact) Record() Record { return c.record }

// CreatedAt returns the creation time.
func (c *Contact) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns the last modification time.
func (c *Contact) UpdatedAt() time.Time { return c.updatedAt }

// WithRecord returns a copy carrying rec and a new modification time.
func (c *Contact) WithRecord(rec Record, now time.Time) Contact {
	return Contact{id: c.id, userID: c.userID, record: rec.Trimmed(), createdAt: c.createdAt, updatedAt: now}
}
