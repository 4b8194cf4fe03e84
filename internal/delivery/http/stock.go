package http

import (
	"errors"
	"fmt"
	"net/http"

	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStocks(base *echo.Group) {
	stocks := base.Group("/stocks")
	stocks.GET("/:ticker", h.getStock)
	stocks.GET("/:ticker/chart", h.getStockChart)
	stocks.GET("/:ticker/financials.csv", h.downloadFinancials)
	stocks.GET("/:ticker/history.csv", h.downloadHistory)
	stocks.POST("/:ticker/chat", h.chatAboutStock)
}

// stockError keeps the friendly message for an unknown symbol.
func (h *HttpAPIHandler) stockError(c echo.Context, ticker string, err error) error {
	if errors.Is(err, apperror.ErrNotFound) {
		message := fmt.Sprintf("Could not retrieve data for %s. Please check the symbol and try again.", ticker)
		return c.JSON(http.StatusNotFound, dto.NewWarningResponse(http.StatusNotFound, message))
	}
	return h.errorResponse(c, err)
}

func (h *HttpAPIHandler) getStock(c echo.Context) error {
	ticker := utils.NormalizeTicker(c.Param("ticker"))

	detail, err := h.service.StockService.Lookup(c.Request().Context(), currentSession(c), ticker)
	if err != nil {
		return h.stockError(c, ticker, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", detail))
}

func (h *HttpAPIHandler) getStockChart(c echo.Context) error {
	ticker := utils.NormalizeTicker(c.Param("ticker"))
	query := new(dto.ChartQuery)
	if !h.bind(c, query) {
		return nil
	}

	chart, err := h.service.StockService.Chart(c.Request().Context(), ticker, query.Period)
	if err != nil {
		return h.stockError(c, ticker, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", chart))
}

func (h *HttpAPIHandler) downloadFinancials(c echo.Context) error {
	ticker := utils.NormalizeTicker(c.Param("ticker"))

	data, err := h.service.StockService.FinancialCSV(c.Request().Context(), ticker)
	if err != nil {
		return h.stockError(c, ticker, err)
	}
	return attachment(c, ticker+"_financial_data.csv", data)
}

func (h *HttpAPIHandler) downloadHistory(c echo.Context) error {
	ticker := utils.NormalizeTicker(c.Param("ticker"))

	data, err := h.service.StockService.HistoryCSV(c.Request().Context(), ticker)
	if err != nil {
		return h.stockError(c, ticker, err)
	}
	return attachment(c, ticker+"_historical_data.csv", data)
}

func attachment(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv", data)
}
