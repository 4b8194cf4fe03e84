package http

import (
	"net/http"

	"stocksense/internal/dto"
	"stocksense/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupChat(base *echo.Group) {
	chat := base.Group("/chat")
	chat.GET("/providers", h.getProviders)
	chat.GET("/history", h.getChatHistory)
}

func (h *HttpAPIHandler) chatAboutStock(c echo.Context) error {
	ctx := c.Request().Context()
	ticker := utils.NormalizeTicker(c.Param("ticker"))
	req := new(dto.ChatRequest)
	if !h.bind(c, req) {
		return nil
	}

	sess := currentSession(c)
	if sess.CurrentTicker != ticker || sess.Quote == nil {
		if _, err := h.service.StockService.Lookup(ctx, sess, ticker); err != nil {
			return h.stockError(c, ticker, err)
		}
	}

	resp, err := h.service.InsightService.Chat(ctx, sess, req.Provider, req.Message)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", resp))
}

func (h *HttpAPIHandler) getProviders(c echo.Context) error {
	statuses := h.service.InsightService.ProviderStatus(c.Request().Context())

	message := "OK"
	available := false
	for _, st := range statuses {
		available = available || st.Available
	}
	if !available {
		message = "No AI providers are currently available. Please try again later."
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(message, statuses))
}

func (h *HttpAPIHandler) getChatHistory(c echo.Context) error {
	history := currentSession(c).ChatHistory
	if history == nil {
		history = []dto.ChatMessage{}
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", history))
}
