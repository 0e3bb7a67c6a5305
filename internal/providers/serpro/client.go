package serpro

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/rotativo/rotativo/internal/benefit/domain"
	"github.com/rotativo/rotativo/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Client fetches NF-e documents from the SERPRO consulta API and extracts
// the fields the benefit engine needs.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) domain.InvoiceLookup {
	httpClient := resty.New().
		SetBaseURL(cfg.SerproBaseURL).
		SetTimeout(cfg.SerproTimeout).
		SetHeader("Accept", "application/json")
	if cfg.SerproToken != "" {
		httpClient.SetAuthToken(cfg.SerproToken)
	}
	return &Client{
		http: httpClient,
		log:  log.Named("provider.serpro"),
	}
}

func (c *Client) Lookup(ctx context.Context, key string) (domain.InvoiceData, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/v1/nfe/" + key)
	if err != nil {
		if isTimeout(err) {
			return domain.InvoiceData{}, fmt.Errorf("%w: %v", domain.ErrLookupTimeout, err)
		}
		return domain.InvoiceData{}, fmt.Errorf("%w: %v", domain.ErrLookupUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return domain.InvoiceData{}, fmt.Errorf("%w: no document for key", domain.ErrInvalidInvoiceKey)
	case !resp.IsSuccess():
		c.log.Warn("serpro responded with error status",
			zap.Int("status", resp.StatusCode()),
			zap.String("key", key),
		)
		return domain.InvoiceData{}, fmt.Errorf("%w: status %d", domain.ErrLookupUnavailable, resp.StatusCode())
	}

	data, err := extract(key, resp.Body())
	if err != nil {
		return domain.InvoiceData{}, err
	}
	return data, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var Module = fx.Module("provider.serpro",
	fx.Provide(New),
)
