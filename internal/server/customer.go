package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/smallbiznis/factura/internal/customer/domain"
)

// @Summary      List Customers
// @Description  List customers, optionally filtered by name substring
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        q  query  string  false  "Name filter"
// @Success      200  {object}  []customerdomain.Response
// @Router       /customers [get]
func (s *Server) ListCustomers(c *gin.Context) {
	resp, err := s.customerSvc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Customer
// @Description  Create a new customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body customerdomain.CreateRequest true "Create Customer Request"
// @Success      200  {object}  customerdomain.Response
// @Router       /customers [post]
func (s *Server) CreateCustomer(c *gin.Context) {
	var req customerdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "customer.create", "customer", &targetID, map[string]any{
			"legal_name": resp.LegalName,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Customer
// @Description  Get customer by ID
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Customer ID"
// @Success      200  {object}  customerdomain.Response
// @Router       /customers/{id} [get]
func (s *Server) GetCustomer(c *gin.Context) {
	resp, err := s.customerSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Customer
// @Description  Update customer fields
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id      path  string                       true  "Customer ID"
// @Param        request body  customerdomain.UpdateRequest true  "Update Customer Request"
// @Success      200  {object}  customerdomain.Response
// @Router       /customers/{id} [put]
func (s *Server) UpdateCustomer(c *gin.Context) {
	var req customerdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Customer
// @Description  Delete customer by ID
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Customer ID"
// @Success      200  {object}  map[string]string
// @Router       /customers/{id} [delete]
func (s *Server) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := s.customerSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "customer.delete", "customer", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
