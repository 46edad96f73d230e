package contact

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/cardex/internal/db"
	"github.com/kailas-cloud/cardex/internal/domain"
	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
)

// store is the consumer interface for contacts (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/contact.Repository on top of one hash per contact.
type Repo struct {
	store  store
	prefix string
}

// New creates a contact repository. An empty prefix falls back to domain.KeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Create stores a new contact.
func (r *Repo) Create(ctx context.Context, c domcontact.Contact) error {
	if err := r.store.HSet(ctx, r.key(c.UserID(), c.ID()), contactToHash(c)); err != nil {
		return fmt.Errorf("hset contact %s: %w", c.ID(), err)
	}
	return nil
}

// Update overwrites a stored contact. Fails with ErrContactNotFound if it was deleted.
func (r *Repo) Update(ctx context.Context, c domcontact.Contact) error {
	key := r.key(c.UserID(), c.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrContactNotFound
	}
	if err := r.store.HSet(ctx, key, contactToHash(c)); err != nil {
		return fmt.Errorf("hset contact %s: %w", c.ID(), err)
	}
	return nil
}

// Get retrieves one contact of a user.
func (r *Repo) Get(ctx context.Context, userID, id string) (domcontact.Contact, error) {
	m, err := r.store.HGetAll(ctx, r.key(userID, id))
	if errors.Is(err, db.ErrKeyNotFound) {
		return domcontact.Contact{}, domain.ErrContactNotFound
	}
	if err != nil {
		return domcontact.Contact{}, fmt.Errorf("hgetall contact %s: %w", id, err)
	}
	if len(m) == 0 {
		return domcontact.Contact{}, domain.ErrContactNotFound
	}
	return contactFromHash(m)
}

// List returns all contacts of a user, newest first. Ties are broken by ID, descending.
func (r *Repo) List(ctx context.Context, userID string) ([]domcontact.Contact, error) {
	keys, err := r.store.Scan(ctx, r.userPattern(userID))
	if err != nil {
		return nil, fmt.Errorf("scan contacts: %w", err)
	}
	if len(keys) == 0 {
		return []domcontact.Contact{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi contacts: %w", err)
	}

	contacts := make([]domcontact.Contact, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		c, err := contactFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse contact %s: %w", keys[i], err)
		}
		contacts = append(contacts, c)
	}

	sort.Slice(contacts, func(i, j int) bool {
		a, b := contacts[i].CreatedAt(), contacts[j].CreatedAt()
		if !a.Equal(b) {
			return a.After(b)
		}
		return contacts[i].ID() > contacts[j].ID()
	})

	return contacts, nil
}

// Delete removes one contact of a user.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	key := r.key(userID, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrContactNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del contact %s: %w", id, err)
	}
	return nil
}

// Key pattern: {prefix}contact:{userID}:{contactID}

func (r *Repo) key(userID, id string) string {
	return fmt.Sprintf("%scontact:%s:%s", r.prefix, userID, id)
}

func (r *Repo) userPattern(userID string) string {
	return fmt.Sprintf("%scontact:%s:*", escapeGlob(r.prefix), escapeGlob(userID))
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// escapeGlob quotes SCAN MATCH metacharacters.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
