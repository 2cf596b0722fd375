package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bankaccountdomain "github.com/smallbiznis/factura/internal/bankaccount/domain"
)

// @Summary      List Bank Accounts
// @Description  List available bank accounts
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  []bankaccountdomain.Response
// @Router       /bank-accounts [get]
func (s *Server) ListBankAccounts(c *gin.Context) {
	resp, err := s.bankAccountSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Bank Account
// @Description  Create a new bank account
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body bankaccountdomain.CreateRequest true "Create Bank Account Request"
// @Success      200  {object}  bankaccountdomain.Response
// @Router       /bank-accounts [post]
func (s *Server) CreateBankAccount(c *gin.Context) {
	var req bankaccountdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bankAccountSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "bank_account.create", "bank_account", &targetID, map[string]any{
			"label": resp.Label,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Bank Account
// @Description  Get bank account by ID
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Bank Account ID"
// @Success      200  {object}  bankaccountdomain.Response
// @Router       /bank-accounts/{id} [get]
func (s *Server) GetBankAccount(c *gin.Context) {
	resp, err := s.bankAccountSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Bank Account
// @Description  Update bank account fields
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id      path  string                          true  "Bank Account ID"
// @Param        request body  bankaccountdomain.UpdateRequest true  "Update Bank Account Request"
// @Success      200  {object}  bankaccountdomain.Response
// @Router       /bank-accounts/{id} [put]
func (s *Server) UpdateBankAccount(c *gin.Context) {
	var req bankaccountdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bankAccountSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Bank Account
// @Description  Delete bank account by ID
// @Tags         bank-accounts
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Bank Account ID"
// @Success      200  {object}  map[string]string
// @Router       /bank-accounts/{id} [delete]
func (s *Server) DeleteBankAccount(c *gin.Context) {
	id := c.Param("id")
	if err := s.bankAccountSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "bank_account.delete", "bank_account", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
