package handler

import (
	"goods-tracker/internal/admin"
	"goods-tracker/pkg/jwtutil"
	"goods-tracker/pkg/logger"
	"goods-tracker/prometheus"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoginRequest is the admin panel login body
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// AdminHandler serves the /api/admin routes
type AdminHandler struct {
	verifier admin.Verifier
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(v admin.Verifier) *AdminHandler {
	return &AdminHandler{verifier: v}
}

// Login checks the admin credentials. Success also carries a bearer token for the product
// mutation routes.
func (h *AdminHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login request", zap.Error(err))
	}

	ok, err := h.verifier.Verify(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		log.Error("Credential verification failed", zap.Error(err))
	}
	if !ok || err != nil {
		prometheus.RecordLogin(false)
		log.Warn("Admin login rejected", zap.String("username", req.Username))
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Invalid credentials",
		})
	}

	prometheus.RecordLogin(true)
	resp := echo.Map{"success": true}
	token, err := jwtutil.GenerateAdminToken(req.Username)
	if err != nil {
		log.Error("Failed to generate admin token", zap.Error(err))
	} else {
		resp["token"] = token
	}

	log.Info("Admin logged in", zap.String("username", req.Username))
	return c.JSON(http.StatusOK, resp)
}
