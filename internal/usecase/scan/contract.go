package scan

import (
	"context"

	domcontact "github.com/kailas-cloud/cardex/internal/domain/contact"
)

// Classifier maps OCR lines to a record.
type Classifier interface {
	Classify(lines []string) domcontact.Record
}

// ContactLister reads the stored contacts a scan is compared against.
type ContactLister interface {
	List(ctx context.Context, userID string) ([]domcontact.Contact, error)
}
