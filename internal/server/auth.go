package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/factura/internal/auth/domain"
)

// @Summary      Login
// @Description  Exchange credentials for an API key
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body authdomain.LoginRequest true "Login Request"
// @Success      200  {object}  authdomain.LoginResponse
// @Router       /login [post]
func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Users
// @Description  List operator accounts
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  []authdomain.UserResponse
// @Router       /users [get]
func (s *Server) ListUsers(c *gin.Context) {
	resp, err := s.authSvc.ListUsers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create User
// @Description  Create an operator account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body authdomain.CreateUserRequest true "Create User Request"
// @Success      200  {object}  authdomain.UserResponse
// @Router       /users [post]
func (s *Server) CreateUser(c *gin.Context) {
	var req authdomain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.authSvc.CreateUser(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID
		_ = s.auditSvc.AuditLog(c.Request.Context(), "user.create", "user", &targetID, map[string]any{
			"email": resp.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete User
// @Description  Delete an operator account and its API keys
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Router       /users/{id} [delete]
func (s *Server) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := s.authSvc.DeleteUser(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		_ = s.auditSvc.AuditLog(c.Request.Context(), "user.delete", "user", &id, nil)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
