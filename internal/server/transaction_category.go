package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	categorydomain "github.com/smallbiznis/factura/internal/transactioncategory/domain"
)

// @Summary      List Transaction Categories
// @Description  List transaction categories
// @Tags         transaction-categories
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        q  query  string  false  "Name filter"
// @Success      200  {object}  []categorydomain.Response
// @Router       /transaction-categories [get]
func (s *Server) ListTransactionCategories(c *gin.Context) {
	resp, err := s.categorySvc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Transaction Category
// @Description  Create a new transaction category
// @Tags         transaction-categories
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body categorydomain.CreateRequest true "Create Category Request"
// @Success      200  {object}  categorydomain.Response
// @Router       /transaction-categories [post]
func (s *Server) CreateTransactionCategory(c *gin.Context) {
	var req categorydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.categorySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "transaction_category.create", "transaction_category", &targetID, map[string]any{
			"name": resp.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Transaction Category
// @Description  Get transaction category by ID
// @Tags         transaction-categories
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Category ID"
// @Success      200  {object}  categorydomain.Response
// @Router       /transaction-categories/{id} [get]
func (s *Server) GetTransactionCategory(c *gin.Context) {
	resp, err := s.categorySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Transaction Category
// @Description  Update transaction category fields
// @Tags         transaction-categories
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id      path  string                       true  "Category ID"
// @Param        request body  categorydomain.UpdateRequest true  "Update Category Request"
// @Success      200  {object}  categorydomain.Response
// @Router       /transaction-categories/{id} [put]
func (s *Server) UpdateTransactionCategory(c *gin.Context) {
	var req categorydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.categorySvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Transaction Category
// @Description  Delete a category; transactions keep a null reference
// @Tags         transaction-categories
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Category ID"
// @Success      200  {object}  map[string]string
// @Router       /transaction-categories/{id} [delete]
func (s *Server) DeleteTransactionCategory(c *gin.Context) {
	id := c.Param("id")
	if err := s.categorySvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "transaction_category.delete", "transaction_category", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
