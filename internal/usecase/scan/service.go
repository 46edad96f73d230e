// Package scan turns one OCR pass into a suggested contact for review.
package scan

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
	"github.com/kailas-cloud/cardex/internal/domain/contact/dedup"
	"github.com/kailas-cloud/cardex/internal/domain/contact/extract"
	"github.com/kailas-cloud/cardex/internal/logger"
	"github.com/kailas-cloud/cardex/internal/metrics"
)

// Input is one OCR result: either a raw text blob or already split lines.
type Input struct {
	Text  string
	Lines []string
}

// Result is the suggested record plus the duplicate proposal against stored contacts.
// Nothing is persisted by a scan.
type Result struct {
	Record   domcontact.Record
	Proposal dedup.Proposal
}

// Service classifies scans and proposes duplicate handling.
type Service struct {
	classifier Classifier
	contacts   ContactLister
}

// New creates a scan service. contacts may be nil to skip the duplicate proposal.
func New(classifier Classifier, contacts ContactLister) *Service {
	if classifier == nil {
		panic("scan: nil classifier")
	}
	return &Service{classifier: classifier, contacts: contacts}
}

// Scan classifies in.Lines, or the lines of in.Text when Lines is empty.
func (s *Service) Scan(ctx context.Context, userID string, in Input) (Result, error) {
	if userID == "" || strings.Contains(userID, ":") {
		return Result{}, fmt.Errorf("user id %q: %w", userID, domain.ErrInvalidInput)
	}

	lines := in.Lines
	if len(lines) == 0 {
		lines = extract.SplitLines(in.Text)
	}

	rec := s.classifier.Classify(lines)
	observe(lines, rec)

	res := Result{Record: rec, Proposal: dedup.Proposal{Action: dedup.ActionCreate}}
	if s.contacts == nil || dedup.KeyOf(rec).IsZero() {
		return res, nil
	}

	existing, err := s.contacts.List(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("list contacts: %w", err)
	}
	res.Proposal = dedup.Propose(rec, existing)

	logger.FromContext(ctx).Debug("Card scanned",
		zap.String("user_id", userID),
		zap.Int("lines", len(lines)),
		zap.String("proposal", string(res.Proposal.Action)),
		zap.String("existing_id", res.Proposal.Key()),
	)
	return res, nil
}

func observe(lines []string, rec domcontact.Record) {
	n := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			n++
		}
	}
	metrics.ScanLines.Observe(float64(n))
	for _, f := range domcontact.Fields {
		if rec.Get(f) != "" {
			metrics.ScanFieldsTotal.WithLabelValues(string(f)).Inc()
		}
	}
}
