package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	benefitdomain "github.com/rotativo/rotativo/internal/benefit/domain"
)

type applyBenefitRequest struct {
	InvoiceKey string `json:"invoice_key"`
}

// ApplyBenefit targets the caller's active ticket.
func (s *Server) ApplyBenefit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req applyBenefitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.benefitSvc.ApplyInvoiceBenefit(c.Request.Context(), benefitdomain.ApplyRequest{
		UserID:     userID,
		InvoiceKey: req.InvoiceKey,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ApplyBenefitToTicket targets an explicit ticket.
func (s *Server) ApplyBenefitToTicket(c *gin.Context) {
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

	var req applyBenefitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.benefitSvc.ApplyInvoiceBenefit(c.Request.Context(), benefitdomain.ApplyRequest{
		UserID:     userID,
		TicketID:   ticketID,
		InvoiceKey: req.InvoiceKey,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) ListTicketBenefits(c *gin.Context) {
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

	records, err := s.benefitSvc.ListByTicket(c.Request.Context(), userID, ticketID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
