package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Search
// @Description  Search invoices, customers, bank accounts, services and users
// @Tags         search
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        q  query  string  true  "Query"
// @Success      200  {object}  domain.Response
// @Router       /search [get]
func (s *Server) Search(c *gin.Context) {
	resp, err := s.searchSvc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
