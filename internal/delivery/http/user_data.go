package http

import (
	"fmt"
	"net/http"

	"stocksense/internal/dto"
	"stocksense/pkg/utils"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupFavorites(base *echo.Group) {
	favorites := base.Group("/favorites", h.requireLogin)
	favorites.GET("", h.getFavorites)
	favorites.POST("", h.addFavorite)
	favorites.DELETE("/:ticker", h.removeFavorite)
	favorites.POST("/:ticker/toggle", h.toggleFavorite)
}

func (h *HttpAPIHandler) SetupSearches(base *echo.Group) {
	searches := base.Group("/searches", h.requireLogin)
	searches.GET("/recent", h.getRecentSearches)
}

func (h *HttpAPIHandler) getFavorites(c echo.Context) error {
	favorites, err := h.service.UserDataService.Favorites(c.Request().Context(), currentSession(c))
	if err != nil {
		return h.errorResponse(c, err)
	}

	message := "OK"
	if len(favorites) == 0 {
		message = "No favorite stocks yet. Add some!"
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(message, favorites))
}

func (h *HttpAPIHandler) addFavorite(c echo.Context) error {
	req := new(dto.FavoriteRequest)
	if !h.bind(c, req) {
		return nil
	}

	sess := currentSession(c)
	ticker := utils.NormalizeTicker(req.Ticker)
	added, err := h.service.UserDataService.AddFavorite(c.Request().Context(), sess, ticker, req.Notes)
	if err != nil {
		return h.errorResponse(c, err)
	}
	if !added {
		message := fmt.Sprintf("%s is already in your favorites.", ticker)
		return c.JSON(http.StatusConflict, dto.NewWarningResponse(http.StatusConflict, message))
	}

	if sess.CurrentTicker == ticker {
		sess.IsFavorite = true
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, fmt.Sprintf("Added %s to favorites!", ticker), dto.ToggleFavoriteResponse{
		Ticker:     ticker,
		IsFavorite: true,
	}))
}

func (h *HttpAPIHandler) removeFavorite(c echo.Context) error {
	sess := currentSession(c)
	ticker := utils.NormalizeTicker(c.Param("ticker"))

	removed, err := h.service.UserDataService.RemoveFavorite(c.Request().Context(), sess, ticker)
	if err != nil {
		return h.errorResponse(c, err)
	}
	if !removed {
		message := fmt.Sprintf("%s is not in your favorites.", ticker)
		return c.JSON(http.StatusNotFound, dto.NewWarningResponse(http.StatusNotFound, message))
	}

	if sess.CurrentTicker == ticker {
		sess.IsFavorite = false
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(fmt.Sprintf("Removed %s from favorites.", ticker), dto.ToggleFavoriteResponse{
		Ticker:     ticker,
		IsFavorite: false,
	}))
}

func (h *HttpAPIHandler) toggleFavorite(c echo.Context) error {
	sess := currentSession(c)
	ticker := utils.NormalizeTicker(c.Param("ticker"))

	isFavorite, err := h.service.UserDataService.ToggleFavoriteCurrentStock(c.Request().Context(), sess, ticker)
	if err != nil {
		return h.errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", dto.ToggleFavoriteResponse{
		Ticker:     ticker,
		IsFavorite: isFavorite,
	}))
}

func (h *HttpAPIHandler) getRecentSearches(c echo.Context) error {
	searches, err := h.service.UserDataService.RecentSearches(c.Request().Context(), currentSession(c))
	if err != nil {
		return h.errorResponse(c, err)
	}

	message := "OK"
	if len(searches) == 0 {
		message = "No recent searches."
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse(message, searches))
}
