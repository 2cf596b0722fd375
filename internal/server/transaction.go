package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	transactiondomain "github.com/smallbiznis/factura/internal/transaction/domain"
)

type createTransactionRequest struct {
	Type          string          `json:"type"`
	Context       string          `json:"context"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Date          string          `json:"date"`
	CategoryID    string          `json:"category_id"`
	BankAccountID string          `json:"bank_account_id"`
	Notes         *string         `json:"notes"`
}

type updateTransactionRequest struct {
	Type          *string          `json:"type"`
	Context       *string          `json:"context"`
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      *string          `json:"currency"`
	Date          *string          `json:"date"`
	CategoryID    *string          `json:"category_id"`
	BankAccountID *string          `json:"bank_account_id"`
	Notes         *string          `json:"notes"`
}

// @Summary      List Transactions
// @Description  List ledger entries with optional filters
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        type             query  string  false  "Type (income|expense)"
// @Param        context          query  string  false  "Context (business|personal)"
// @Param        category_id      query  string  false  "Category ID"
// @Param        bank_account_id  query  string  false  "Bank Account ID"
// @Param        date_from        query  string  false  "Date From"
// @Param        date_to          query  string  false  "Date To"
// @Success      200  {object}  []transactiondomain.Response
// @Router       /transactions [get]
func (s *Server) ListTransactions(c *gin.Context) {
	filters, err := transactionFilters(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.transactionSvc.List(c.Request.Context(), filters)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Transaction
// @Description  Record a ledger entry
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body createTransactionRequest true "Create Transaction Request"
// @Success      200  {object}  transactiondomain.Response
// @Router       /transactions [post]
func (s *Server) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.Create(c.Request.Context(), transactiondomain.CreateRequest{
		Type:          req.Type,
		Context:       req.Context,
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Date:          req.Date,
		CategoryID:    req.CategoryID,
		BankAccountID: req.BankAccountID,
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "transaction.create", "transaction", &targetID, map[string]any{
			"type":   string(resp.Type),
			"amount": resp.Amount.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Transaction
// @Description  Get ledger entry by ID
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Transaction ID"
// @Success      200  {object}  transactiondomain.Response
// @Router       /transactions/{id} [get]
func (s *Server) GetTransaction(c *gin.Context) {
	resp, err := s.transactionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Transaction
// @Description  Update ledger entry fields
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id      path  string                   true  "Transaction ID"
// @Param        request body  updateTransactionRequest true  "Update Transaction Request"
// @Success      200  {object}  transactiondomain.Response
// @Router       /transactions/{id} [put]
func (s *Server) UpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.transactionSvc.Update(c.Request.Context(), c.Param("id"), transactiondomain.UpdateRequest{
		Type:          req.Type,
		Context:       req.Context,
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Date:          req.Date,
		CategoryID:    req.CategoryID,
		BankAccountID: req.BankAccountID,
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Transaction
// @Description  Delete ledger entry by ID
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Transaction ID"
// @Success      200  {object}  map[string]string
// @Router       /transactions/{id} [delete]
func (s *Server) DeleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if err := s.transactionSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "transaction.delete", "transaction", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Transactions Summary
// @Description  Aggregate income, expenses, net balance and count
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        type             query  string  false  "Type (income|expense)"
// @Param        context          query  string  false  "Context (business|personal)"
// @Param        category_id      query  string  false  "Category ID"
// @Param        bank_account_id  query  string  false  "Bank Account ID"
// @Param        date_from        query  string  false  "Date From"
// @Param        date_to          query  string  false  "Date To"
// @Success      200  {object}  transactiondomain.Summary
// @Router       /transactions/summary [get]
func (s *Server) GetTransactionsSummary(c *gin.Context) {
	filters, err := transactionFilters(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.transactionSvc.GetSummary(c.Request.Context(), filters)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Bank Balances
// @Description  Per-bank-account income, expenses and net balance
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        context  query  string  false  "Context (business|personal)"
// @Success      200  {object}  []transactiondomain.BankBalance
// @Router       /transactions/balances [get]
func (s *Server) GetBankBalances(c *gin.Context) {
	resp, err := s.transactionSvc.GetBankBalances(c.Request.Context(), c.Query("context"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func transactionFilters(c *gin.Context) (transactiondomain.Filters, error) {
	var query struct {
		Type          string `form:"type"`
		Context       string `form:"context"`
		CategoryID    string `form:"category_id"`
		BankAccountID string `form:"bank_account_id"`
		DateFrom      string `form:"date_from"`
		DateTo        string `form:"date_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		return transactiondomain.Filters{}, invalidRequestError()
	}

	dateFrom, err := parseOptionalDate(query.DateFrom)
	if err != nil {
		return transactiondomain.Filters{}, newValidationError("date_from", "invalid_date_from", "invalid date_from")
	}
	dateTo, err := parseOptionalDate(query.DateTo)
	if err != nil {
		return transactiondomain.Filters{}, newValidationError("date_to", "invalid_date_to", "invalid date_to")
	}

	return transactiondomain.Filters{
		Type:          query.Type,
		Context:       query.Context,
		CategoryID:    query.CategoryID,
		BankAccountID: query.BankAccountID,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
	}, nil
}
