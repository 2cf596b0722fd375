package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/factura/internal/invoice/domain"
)

// @Summary      List Invoices
// @Description  List invoices with optional filters
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        status       query  string  false  "Status"
// @Param        customer_id  query  string  false  "Customer ID"
// @Param        issue_from   query  string  false  "Issue Date From"
// @Param        issue_to     query  string  false  "Issue Date To"
// @Success      200  {object}  []invoicedomain.ListItem
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		Status     string `form:"status"`
		CustomerID string `form:"customer_id"`
		IssueFrom  string `form:"issue_from"`
		IssueTo    string `form:"issue_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	issueFrom, err := parseOptionalDate(query.IssueFrom)
	if err != nil {
		AbortWithError(c, newValidationError("issue_from", "invalid_issue_from", "invalid issue_from"))
		return
	}
	issueTo, err := parseOptionalDate(query.IssueTo)
	if err != nil {
		AbortWithError(c, newValidationError("issue_to", "invalid_issue_to", "invalid issue_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListRequest{
		Status:        query.Status,
		CustomerID:    query.CustomerID,
		IssueDateFrom: issueFrom,
		IssueDateTo:   issueTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Invoice
// @Description  Create a new invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body invoicedomain.CreatePayload true "Create Invoice Request"
// @Success      200  {object}  invoicedomain.Response
// @Router       /invoices [post]
func (s *Server) CreateInvoice(c *gin.Context) {
	var payload invoicedomain.CreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), payload)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "invoice.create", "invoice", &targetID, map[string]any{
			"invoice_number": resp.InvoiceNumber,
			"total_amount":   resp.TotalAmount.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Invoice
// @Description  Get invoice by ID
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Response
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Invoice
// @Description  Replace an invoice's header and lines
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id      path  string                      true  "Invoice ID"
// @Param        request body  invoicedomain.CreatePayload true  "Update Invoice Request"
// @Success      200  {object}  invoicedomain.Response
// @Router       /invoices/{id} [put]
func (s *Server) UpdateInvoice(c *gin.Context) {
	var payload invoicedomain.CreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "invoice.update", "invoice", &targetID, map[string]any{
			"invoice_number": resp.InvoiceNumber,
			"total_amount":   resp.TotalAmount.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Invoice
// @Description  Delete invoice by ID
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Invoice ID"
// @Success      200  {object}  map[string]string
// @Router       /invoices/{id} [delete]
func (s *Server) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")
	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "invoice.delete", "invoice", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Get Invoice Document
// @Description  Render the printable invoice document
// @Tags         invoices
// @Produce      html
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Invoice ID"
// @Success      200  {string}  string
// @Router       /invoices/{id}/document [get]
func (s *Server) GetInvoiceDocument(c *gin.Context) {
	html, err := s.invoiceSvc.RenderDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	value, err := time.ParseInLocation(invoicedomain.DateLayout, raw, time.UTC)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
