package http

import (
	"net/http"
	"strconv"

	"stocksense/internal/dto"
	"stocksense/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPredictions(base *echo.Group) {
	predictions := base.Group("/predictions")
	predictions.GET("", h.getPredictions)
	predictions.POST("", h.createPrediction)
	predictions.PATCH("/:id/actual", h.updatePredictionActual)
}

func (h *HttpAPIHandler) createPrediction(c echo.Context) error {
	req := new(dto.CreatePredictionRequest)
	if !h.bind(c, req) {
		return nil
	}

	targetDate, err := utils.ParseDate(req.TargetDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("target_date must be YYYY-MM-DD"))
	}

	id, err := h.service.PredictionService.Record(c.Request().Context(), req.Ticker, targetDate, *req.PredictedPrice)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Prediction recorded", map[string]uint{"id": id}))
}

func (h *HttpAPIHandler) updatePredictionActual(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid prediction id"))
	}

	req := new(dto.UpdatePredictionActualRequest)
	if !h.bind(c, req) {
		return nil
	}

	if !h.service.PredictionService.UpdateAccuracy(c.Request().Context(), uint(id), *req.ActualPrice) {
		return c.JSON(http.StatusNotFound, dto.NewWarningResponse(http.StatusNotFound, "Prediction not found"))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Prediction updated", nil))
}

func (h *HttpAPIHandler) getPredictions(c echo.Context) error {
	query := new(dto.GetPredictionsQuery)
	if !h.bind(c, query) {
		return nil
	}

	var ticker *string
	if query.Ticker != "" {
		ticker = &query.Ticker
	}
	predictions := h.service.PredictionService.Recent(c.Request().Context(), ticker, query.Limit)
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", predictions))
}
