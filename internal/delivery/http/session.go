package http

import (
	"net/http"

	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/internal/session"
	"stocksense/pkg/logger"

	"github.com/labstack/echo/v4"
)

const sessionContextKey = "session"

// sessionMiddleware loads the session named by the cookie, creating one when it is
// missing or expired, and holds its lock for the whole request.
func (h *HttpAPIHandler) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		var sess *session.Session
		if cookie, err := c.Cookie(h.cfg.API.SessionCookieName); err == nil {
			sess, _ = h.sessions.Get(cookie.Value)
		}
		if sess == nil {
			sess = h.sessions.Create()
		}

		c.SetCookie(&http.Cookie{
			Name:     h.cfg.API.SessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(h.sessions.TTL().Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		sess.Lock()
		defer func() {
			h.sessions.Save(sess)
			sess.Unlock()
		}()

		c.Set(sessionContextKey, sess)
		reqLog := h.log.With(logger.StringField("session_id", sess.ID))
		if sess.UserID != nil {
			reqLog = reqLog.With(logger.UintField("user_id", *sess.UserID))
		}
		c.SetRequest(c.Request().WithContext(logger.NewContext(c.Request().Context(), reqLog)))
		return next(c)
	}
}

func currentSession(c echo.Context) *session.Session {
	sess, _ := c.Get(sessionContextKey).(*session.Session)
	return sess
}

func (h *HttpAPIHandler) requireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.service.AuthService.RequireLogin(c.Request().Context(), currentSession(c)) {
			return c.JSON(http.StatusUnauthorized, dto.NewWarningResponse(http.StatusUnauthorized, apperror.ErrLoginRequired.Error()))
		}
		return next(c)
	}
}
