package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	ticketdomain "github.com/rotativo/rotativo/internal/ticket/domain"
)

type createTicketRequest struct {
	Hours   int    `json:"hours"`
	Plate   string `json:"plate"`
	EntryAt string `json:"entry_at,omitempty"`
}

func (s *Server) CreateTicket(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var entryAt time.Time
	if raw := strings.TrimSpace(req.EntryAt); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		entryAt = parsed
	}

	ticket, err := s.ticketSvc.Create(c.Request.Context(), ticketdomain.CreateTicketRequest{
		UserID:  userID,
		Hours:   req.Hours,
		Plate:   req.Plate,
		EntryAt: entryAt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": ticket})
}

func (s *Server) GetTicket(c *gin.Context) {
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

	ticket, err := s.ticketSvc.GetByID(c.Request.Context(), ticketdomain.GetTicketRequest{
		UserID:   userID,
		TicketID: ticketID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ticket})
}

func (s *Server) ListTickets(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tickets, err := s.ticketSvc.List(c.Request.Context(), ticketdomain.ListTicketsRequest{
		UserID: userID,
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tickets})
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
