package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	benefitdomain "github.com/rotativo/rotativo/internal/benefit/domain"
	invoicedomain "github.com/rotativo/rotativo/internal/invoice/domain"
	ledgerdomain "github.com/rotativo/rotativo/internal/ledger/domain"
	paymentdomain "github.com/rotativo/rotativo/internal/payment/domain"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
	tickettypedomain "github.com/rotativo/rotativo/internal/tickettype/domain"
	userdomain "github.com/rotativo/rotativo/internal/user/domain"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware maps domain sentinel errors to HTTP statuses once
// the handler chain finishes.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, code := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: errorPayload{
			Code:    code,
			Message: httpMessage(lastErr.Err, code),
		}})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, benefitdomain.ErrInvalidInvoiceKey),
		errors.Is(err, ticketdomain.ErrInvalidPlate),
		errors.Is(err, ticketdomain.ErrInvalidWindow),
		errors.Is(err, ticketdomain.ErrInvalidAmount),
		errors.Is(err, tickettypedomain.ErrInvalidHours),
		errors.Is(err, tickettypedomain.ErrInvalidPrice),
		errors.Is(err, ledgerdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidAmount):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, ticketdomain.ErrNotFound),
		errors.Is(err, ticketdomain.ErrNoActiveTicket),
		errors.Is(err, tickettypedomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ticketdomain.ErrNotOwner):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ticketdomain.ErrActiveTicketExists),
		errors.Is(err, ticketdomain.ErrTicketNotOpen),
		errors.Is(err, invoicedomain.ErrAlreadyUsed),
		errors.Is(err, paymentdomain.ErrIdempotencyConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, benefitdomain.ErrIneligibleLocation),
		errors.Is(err, benefitdomain.ErrOutOfWindow),
		errors.Is(err, benefitdomain.ErrExtraction),
		errors.Is(err, paymentdomain.ErrAmountMismatch):
		return http.StatusUnprocessableEntity, "unprocessable"
	case errors.Is(err, benefitdomain.ErrLookupTimeout):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, benefitdomain.ErrLookupUnavailable):
		return http.StatusBadGateway, "upstream_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func httpMessage(err error, code string) string {
	if code == "internal_error" {
		return "internal server error"
	}
	return err.Error()
}
