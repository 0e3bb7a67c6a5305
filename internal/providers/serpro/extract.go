package serpro

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotativo/rotativo/internal/benefit/domain"
	"github.com/rotativo/rotativo/pkg/money"
)

// The consulta payload nests the document under nfeProc; the extraction
// paths below mirror the NF-e layout 4.00 element names.
type nfePayload struct {
	NfeProc struct {
		NFe struct {
			InfNFe struct {
				Ide struct {
					DhEmi    string `json:"dhEmi"`
					DhSaiEnt string `json:"dhSaiEnt"`
				} `json:"ide"`
				Total struct {
					ICMSTot struct {
						VNF   flexAmount `json:"vNF"`
						VProd flexAmount `json:"vProd"`
					} `json:"ICMSTot"`
				} `json:"total"`
				Dest struct {
					EnderDest struct {
						CEP string `json:"CEP"`
					} `json:"enderDest"`
				} `json:"dest"`
			} `json:"infNFe"`
		} `json:"NFe"`
		ProtNFe struct {
			InfProt struct {
				DhRecbto string `json:"dhRecbto"`
			} `json:"infProt"`
		} `json:"protNFe"`
	} `json:"nfeProc"`
}

// flexAmount accepts the monetary fields both as JSON numbers and as the
// quoted decimal strings SERPRO actually emits.
type flexAmount struct {
	value float64
	set   bool
}

func (f *flexAmount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value = parsed
	f.set = true
	return nil
}

func extract(key string, body []byte) (domain.InvoiceData, error) {
	var payload nfePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.InvoiceData{}, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	inf := payload.NfeProc.NFe.InfNFe

	// Document total falls back from vNF to vProd.
	amount := inf.Total.ICMSTot.VNF
	if !amount.set {
		amount = inf.Total.ICMSTot.VProd
	}
	if !amount.set || amount.value <= 0 {
		return domain.InvoiceData{}, fmt.Errorf("%w: missing document total", domain.ErrExtraction)
	}

	// Event timestamp falls back from emission to exit to protocol receipt.
	eventAt, err := firstTimestamp(
		inf.Ide.DhEmi,
		inf.Ide.DhSaiEnt,
		payload.NfeProc.ProtNFe.InfProt.DhRecbto,
	)
	if err != nil {
		return domain.InvoiceData{}, err
	}

	cep := digitsOnly(inf.Dest.EnderDest.CEP)
	if len(cep) != 8 {
		return domain.InvoiceData{}, fmt.Errorf("%w: destination CEP missing or malformed", domain.ErrExtraction)
	}

	return domain.InvoiceData{
		Key:            key,
		TotalValue:     money.FromFloat(amount.value),
		EventAt:        eventAt,
		DestPostalCode: cep,
		RawPayload:     body,
	}, nil
}

func firstTimestamp(candidates ...string) (time.Time, error) {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, c)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad timestamp %q", domain.ErrExtraction, c)
		}
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: no event timestamp", domain.ErrExtraction)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
