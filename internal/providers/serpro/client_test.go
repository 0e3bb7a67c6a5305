package serpro

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rotativo/rotativo/internal/benefit/domain"
	"github.com/rotativo/rotativo/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "35260112345678000199550010000001231000001234"

func newTestClient(baseURL string, timeout time.Duration) domain.InvoiceLookup {
	return New(config.Config{
		SerproBaseURL: baseURL,
		SerproToken:   "test-token",
		SerproTimeout: timeout,
	}, zap.NewNop())
}

func TestLookup_ExtractsDocument(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"nfeProc": {
				"NFe": {
					"infNFe": {
						"ide": {"dhEmi": "2026-01-10T10:30:00-03:00"},
						"total": {"ICMSTot": {"vNF": "115.50", "vProd": "100.00"}},
						"dest": {"enderDest": {"CEP": "09510-000"}}
					}
				},
				"protNFe": {"infProt": {"dhRecbto": "2026-01-10T11:00:00-03:00"}}
			}
		}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2*time.Second)
	data, err := client.Lookup(context.Background(), testKey)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "/api/v1/nfe/"+testKey, gotPath)
	assert.Equal(t, testKey, data.Key)
	assert.Equal(t, int64(11550), data.TotalValue)
	assert.Equal(t, "09510000", data.DestPostalCode)
	assert.Equal(t, time.Date(2026, 1, 10, 13, 30, 0, 0, time.UTC), data.EventAt)
	assert.NotEmpty(t, data.RawPayload)
}

func TestExtract_FallbackFields(t *testing.T) {
	// vNF absent falls back to vProd; dhEmi and dhSaiEnt absent fall back to
	// the protocol receipt timestamp.
	body := []byte(`{
		"nfeProc": {
			"NFe": {
				"infNFe": {
					"ide": {},
					"total": {"ICMSTot": {"vProd": 88.20}},
					"dest": {"enderDest": {"CEP": "09520000"}}
				}
			},
			"protNFe": {"infProt": {"dhRecbto": "2026-01-10T12:00:00Z"}}
		}
	}`)

	data, err := extract(testKey, body)
	require.NoError(t, err)
	assert.Equal(t, int64(8820), data.TotalValue)
	assert.Equal(t, time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), data.EventAt)
	assert.Equal(t, "09520000", data.DestPostalCode)
}

func TestExtract_PrefersEmissionOverExit(t *testing.T) {
	body := []byte(`{
		"nfeProc": {
			"NFe": {
				"infNFe": {
					"ide": {"dhEmi": "2026-01-10T09:00:00Z", "dhSaiEnt": "2026-01-10T10:00:00Z"},
					"total": {"ICMSTot": {"vNF": "10.00"}},
					"dest": {"enderDest": {"CEP": "09510000"}}
				}
			}
		}
	}`)

	data, err := extract(testKey, body)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC), data.EventAt)
}

func TestExtract_Failures(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `<xml/>`},
		{"missing total", `{"nfeProc":{"NFe":{"infNFe":{"ide":{"dhEmi":"2026-01-10T09:00:00Z"},"dest":{"enderDest":{"CEP":"09510000"}}}}}}`},
		{"missing timestamp", `{"nfeProc":{"NFe":{"infNFe":{"total":{"ICMSTot":{"vNF":"10.00"}},"dest":{"enderDest":{"CEP":"09510000"}}}}}}`},
		{"short cep", `{"nfeProc":{"NFe":{"infNFe":{"ide":{"dhEmi":"2026-01-10T09:00:00Z"},"total":{"ICMSTot":{"vNF":"10.00"}},"dest":{"enderDest":{"CEP":"0951"}}}}}}`},
		{"bad timestamp", `{"nfeProc":{"NFe":{"infNFe":{"ide":{"dhEmi":"sexta-feira"},"total":{"ICMSTot":{"vNF":"10.00"}},"dest":{"enderDest":{"CEP":"09510000"}}}}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := extract(testKey, []byte(tc.body))
			assert.ErrorIs(t, err, domain.ErrExtraction)
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2*time.Second)
	_, err := client.Lookup(context.Background(), testKey)
	assert.ErrorIs(t, err, domain.ErrInvalidInvoiceKey)
}

func TestLookup_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 2*time.Second)
	_, err := client.Lookup(context.Background(), testKey)
	assert.ErrorIs(t, err, domain.ErrLookupUnavailable)
	assert.True(t, strings.Contains(err.Error(), "502"))
}

func TestLookup_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 20*time.Millisecond)
	_, err := client.Lookup(context.Background(), testKey)
	assert.ErrorIs(t, err, domain.ErrLookupTimeout)
}
