package http

import (
	"net/http"

	"stocksense/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAuth(base *echo.Group) {
	auth := base.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/logout", h.logout)
	auth.GET("/me", h.me)
}

func (h *HttpAPIHandler) login(c echo.Context) error {
	req := new(dto.LoginRequest)
	if !h.bind(c, req) {
		return nil
	}

	sess := currentSession(c)
	user, err := h.service.AuthService.Login(c.Request().Context(), sess, req.Username)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Logged in as "+user.Username, sess.ToResponse()))
}

func (h *HttpAPIHandler) logout(c echo.Context) error {
	sess := currentSession(c)
	h.service.AuthService.Logout(c.Request().Context(), sess)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Logged out", sess.ToResponse()))
}

func (h *HttpAPIHandler) me(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", currentSession(c).ToResponse()))
}
