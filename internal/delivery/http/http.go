package http

import (
	"errors"
	"net/http"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/internal/service"
	"stocksense/internal/session"
	"stocksense/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	cfg       *config.Config
	log       *logger.Logger
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	sessions  *session.Store
}

func NewHttpAPIHandler(
	cfg *config.Config,
	log *logger.Logger,
	echo *echo.Echo,
	validator *goValidator.Validate,
	service *service.Service,
	sessions *session.Store,
) *HttpAPIHandler {
	return &HttpAPIHandler{
		cfg:       cfg,
		log:       log,
		echo:      echo,
		validator: validator,
		service:   service,
		sessions:  sessions,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/health", h.health)

	v1 := h.echo.Group("/api/v1", h.sessionMiddleware)
	h.SetupAuth(v1)
	h.SetupStocks(v1)
	h.SetupChat(v1)
	h.SetupFavorites(v1)
	h.SetupSearches(v1)
	h.SetupPredictions(v1)
}

func (h *HttpAPIHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", nil))
}

// bind decodes and validates the request. On failure it has already written a 400.
func (h *HttpAPIHandler) bind(c echo.Context, req interface{}) bool {
	if err := c.Bind(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request body"))
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		return false
	}
	return true
}

// errorResponse renders an error as a warning envelope. Only unexpected errors become 5xx.
func (h *HttpAPIHandler) errorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := "Something went wrong, please try again later."

	switch {
	case errors.Is(err, apperror.ErrLoginRequired):
		code, message = http.StatusUnauthorized, apperror.ErrLoginRequired.Error()
	case errors.Is(err, apperror.ErrInvalidInput):
		code, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperror.ErrRateLimited):
		code, message = http.StatusTooManyRequests, apperror.ErrRateLimited.Error()
	case errors.Is(err, apperror.ErrProvider):
		code, message = http.StatusBadGateway, "Market data is temporarily unavailable, please try again later."
	default:
		h.log.ErrorContext(c.Request().Context(), "Unexpected error handling request",
			logger.ErrorField(err),
			logger.StringField("path", c.Path()),
		)
	}

	return c.JSON(code, dto.NewWarningResponse(code, message))
}
