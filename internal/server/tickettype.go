package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListTicketTypes(c *gin.Context) {
	types, err := s.typeRepo.List(c.Request.Context(), s.db)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": types})
}
