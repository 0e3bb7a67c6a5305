package domain

import (
	"context"
	"errors"
	"time"
)

// InvoiceData is the normalized result of a fiscal document lookup.
// TotalValue is centavos; DestPostalCode is eight digits.
type InvoiceData struct {
	Key            string
	TotalValue     int64
	EventAt        time.Time
	DestPostalCode string
	RawPayload     []byte
}

// InvoiceLookup fetches and extracts a fiscal document by its access key.
// Implementations distinguish transport failures (ErrLookupUnavailable,
// ErrLookupTimeout) from documents that cannot be read (ErrExtraction).
type InvoiceLookup interface {
	Lookup(ctx context.Context, key string) (InvoiceData, error)
}

var (
	ErrIneligibleLocation = errors.New("ineligible_location")
	ErrOutOfWindow        = errors.New("invoice_out_of_window")
	ErrExtraction         = errors.New("invoice_extraction_failed")
	ErrLookupUnavailable  = errors.New("invoice_lookup_unavailable")
	ErrLookupTimeout      = errors.New("invoice_lookup_timeout")
	ErrInvalidInvoiceKey  = errors.New("invalid_invoice_key")
)
