package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/rotativo/rotativo/internal/payment/domain"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type settleTicketRequest struct {
	Amount *int64 `json:"amount"`
	Method string `json:"method"`
}

func (s *Server) SettleTicket(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	ticketID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	// The body is optional: the amount due comes from the ticket itself.
	var req settleTicketRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
	}

	result, err := s.paymentSvc.Settle(c.Request.Context(), paymentdomain.SettleRequest{
		UserID:         userID,
		TicketID:       ticketID,
		Amount:         req.Amount,
		Method:         req.Method,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"data": result})
}

func (s *Server) ListTicketPayments(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	ticketID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	records, err := s.paymentSvc.ListByTicket(c.Request.Context(), userID, ticketID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
