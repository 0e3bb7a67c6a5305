package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ledgerdomain "github.com/rotativo/rotativo/internal/ledger/domain"
)

type addCreditRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

func (s *Server) AddCredit(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req addCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.ledgerSvc.AddManualCredit(c.Request.Context(), ledgerdomain.AddCreditRequest{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) GetStatement(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	statement, err := s.ledgerSvc.GetStatement(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statement})
}
