package contact

import (
	"fmt"
	"strconv"
	"time"

	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
)

const (
	hashID        = "id"
	hashUserID    = "user_id"
	hashCreatedAt = "created_at"
	hashUpdatedAt = "updated_at"
)

// contactToHash converts a domain Contact to a map for HSET.
// Every field is written so an update replaces the previous values.
func contactToHash(c domcontact.Contact) map[string]string {
	rec := c.Record()
	m := map[string]string{
		hashID:        c.ID(),
		hashUserID:    c.UserID(),
		hashCreatedAt: strconv.FormatInt(c.CreatedAt().UnixNano(), 10),
		hashUpdatedAt: strconv.FormatInt(c.UpdatedAt().UnixNano(), 10),
	}
	for _, f := range domcontact.Fields {
		m[string(f)] = rec.Get(f)
	}
	return m
}

// contactFromHash hydrates a domain Contact from an HGETALL result map.
func contactFromHash(m map[string]string) (domcontact.Contact, error) {
	createdAt, err := parseNanos(m[hashCreatedAt])
	if err != nil {
		return domcontact.Contact{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt := createdAt
	if s := m[hashUpdatedAt]; s != "" {
		if updatedAt, err = parseNanos(s); err != nil {
			return domcontact.Contact{}, fmt.Errorf("invalid updated_at: %w", err)
		}
	}

	rec := domcontact.Record{
		Name:     m[string(domcontact.FieldName)],
		Company:  m[string(domcontact.FieldCompany)],
		Position: m[string(domcontact.FieldPosition)],
		Phone:    m[string(domcontact.FieldPhone)],
		Email:    m[string(domcontact.FieldEmail)],
		Website:  m[string(domcontact.FieldWebsite)],
		Notes:    m[string(domcontact.FieldNotes)],
	}
	return domcontact.Reconstruct(m[hashID], m[hashUserID], rec, createdAt, updatedAt), nil
}

func parseNanos(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n).UTC(), nil
}
