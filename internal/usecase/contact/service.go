package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
	"github.com/kailas-cloud/cardex/internal/domain/contact/dedup"
	"github.com/kailas-cloud/cardex/internal/logger"
	"github.com/kailas-cloud/cardex/internal/metrics"
)

// OnDuplicate tells Save what to do when the record matches a stored contact.
type OnDuplicate string

const (
	// OnDuplicateAsk stops with a *domain.DuplicateError so the caller can decide.
	OnDuplicateAsk OnDuplicate = ""
	// OnDuplicateUpdate merges the record into the matched contact.
	OnDuplicateUpdate OnDuplicate = "update"
	// OnDuplicateReject keeps the matched contact unchanged.
	OnDuplicateReject OnDuplicate = "reject"
)

// SaveResult is the committed resolver decision and the contact it refers to.
// For ActionRejectDuplicate Contact is the untouched stored contact.
type SaveResult struct {
	Decision dedup.Decision
	Contact  domcontact.Contact
}

// Service saves reviewed records with duplicate resolution and serves stored contacts.
type Service struct {
	repo   Repository
	locker Locker
	now    func() time.Time
	newID  func() (string, error)
}

// New creates a contact service. locker may be nil in single-writer setups.
func New(repo Repository, locker Locker) *Service {
	if repo == nil {
		panic("contact: nil repository")
	}
	return &Service{
		repo:   repo,
		locker: locker,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  newUUIDv7,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// WithIDGenerator overrides contact ID generation.
func (s *Service) WithIDGenerator(gen func() (string, error)) *Service {
	if gen != nil {
		s.newID = gen
	}
	return s
}

// Save resolves rec against the user's contacts and commits the outcome.
// List, resolve and commit run under the user's lock.
func (s *Service) Save(
	ctx context.Context, userID string, rec domcontact.Record, onDup OnDuplicate,
) (SaveResult, error) {
	if err := validateUserID(userID); err != nil {
		return SaveResult{}, err
	}
	switch onDup {
	case OnDuplicateAsk, OnDuplicateUpdate, OnDuplicateReject:
	default:
		return SaveResult{}, fmt.Errorf("unknown on_duplicate %q: %w", onDup, domain.ErrInvalidInput)
	}
	rec = rec.Trimmed()
	if !rec.Persistable() {
		return SaveResult{}, domain.ErrEmptyContact
	}

	release, err := s.lock(ctx, userID)
	if err != nil {
		return SaveResult{}, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.FromContext(ctx).Warn("Release save lock failed", zap.String("user_id", userID), zap.Error(err))
		}
	}()

	existing, err := s.repo.List(ctx, userID)
	if err != nil {
		return SaveResult{}, fmt.Errorf("list contacts: %w", err)
	}

	proposal := dedup.Propose(rec, existing)
	log := logger.FromContext(ctx).With(
		zap.String("user_id", userID),
		zap.String("proposal", string(proposal.Action)),
		zap.String("phone", maskPhone(rec.Phone)),
		zap.String("email", maskEmail(rec.Email)),
	)

	if proposal.Action == dedup.ActionCreate {
		c, err := s.create(ctx, userID, rec)
		if err != nil {
			return SaveResult{}, err
		}
		s.record(log, proposal.Commit(false), c.ID())
		return SaveResult{Decision: proposal.Commit(false), Contact: c}, nil
	}

	match := *proposal.Existing
	switch onDup {
	case OnDuplicateUpdate:
		updated := match.WithRecord(match.Record().MergeFrom(rec), s.now())
		if err := s.repo.Update(ctx, updated); err != nil {
			return SaveResult{}, fmt.Errorf("update contact: %w", err)
		}
		d := proposal.Commit(true)
		s.record(log, d, updated.ID())
		return SaveResult{Decision: d, Contact: updated}, nil
	case OnDuplicateReject:
		d := proposal.Commit(false)
		s.record(log, d, match.ID())
		return SaveResult{Decision: d, Contact: match}, nil
	default:
		metrics.ResolverDecisionsTotal.WithLabelValues("conflict").Inc()
		log.Debug("Duplicate needs confirmation", zap.String("existing_id", match.ID()))
		return SaveResult{}, domain.NewDuplicate(match.ID())
	}
}

func (s *Service) create(ctx context.Context, userID string, rec domcontact.Record) (domcontact.Contact, error) {
	id, err := s.newID()
	if err != nil {
		return domcontact.Contact{}, fmt.Errorf("generate contact id: %w", err)
	}
	c, err := domcontact.New(id, userID, rec, s.now())
	if err != nil {
		return domcontact.Contact{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return domcontact.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

func (s *Service) record(log *zap.Logger, d dedup.Decision, contactID string) {
	metrics.ResolverDecisionsTotal.WithLabelValues(string(d.Action)).Inc()
	log.Debug("Contact saved", zap.String("action", string(d.Action)), zap.String("contact_id", contactID))
}

func (s *Service) lock(ctx context.Context, userID string) (func(context.Context) error, error) {
	if s.locker == nil {
		return func(context.Context) error { return nil }, nil
	}
	start := time.Now()
	release, err := s.locker.Acquire(ctx, userID)
	metrics.LockWaitDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("lock user %s: %w", userID, err)
	}
	return release, nil
}

// Get retrieves one contact.
func (s *Service) Get(ctx context.Context, userID, id string) (domcontact.Contact, error) {
	if err := validateUserID(userID); err != nil {
		return domcontact.Contact{}, err
	}
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return domcontact.Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// List returns the user's contacts, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]domcontact.Contact, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	contacts, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// Delete removes one contact.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

func validateUserID(userID string) error {
	if userID == "" || strings.Contains(userID, ":") {
		return fmt.Errorf("user id %q: %w", userID, domain.ErrInvalidInput)
	}
	return nil
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("uuid v7: %w", err)
	}
	return id.String(), nil
}
