package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	servicecatalogdomain "github.com/smallbiznis/factura/internal/servicecatalog/domain"
)

// @Summary      List Services
// @Description  List catalog services, optionally filtered by title substring
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        q  query  string  false  "Title filter"
// @Success      200  {object}  []servicecatalogdomain.Response
// @Router       /services [get]
func (s *Server) ListCatalogServices(c *gin.Context) {
	resp, err := s.catalogSvc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Service
// @Description  Create a new catalog service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body servicecatalogdomain.CreateRequest true "Create Service Request"
// @Success      200  {object}  servicecatalogdomain.Response
// @Router       /services [post]
func (s *Server) CreateCatalogService(c *gin.Context) {
	var req servicecatalogdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "service.create", "service", &targetID, map[string]any{
			"service_title": resp.ServiceTitle,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Service
// @Description  Get catalog service by ID
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Service ID"
// @Success      200  {object}  servicecatalogdomain.Response
// @Router       /services/{id} [get]
func (s *Server) GetCatalogService(c *gin.Context) {
	resp, err := s.catalogSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Service
// @Description  Update catalog service fields
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id      path  string                             true  "Service ID"
// @Param        request body  servicecatalogdomain.UpdateRequest true  "Update Service Request"
// @Success      200  {object}  servicecatalogdomain.Response
// @Router       /services/{id} [put]
func (s *Server) UpdateCatalogService(c *gin.Context) {
	var req servicecatalogdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Service
// @Description  Delete catalog service by ID
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "Service ID"
// @Success      200  {object}  map[string]string
// @Router       /services/{id} [delete]
func (s *Server) DeleteCatalogService(c *gin.Context) {
	id := c.Param("id")
	if err := s.catalogSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "service.delete", "service", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
