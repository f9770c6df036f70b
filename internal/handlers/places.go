package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-trip-planner/backend/internal/places"
)

type PlaceHandler struct {
	Catalog *places.Catalog
}

// NewPlaceHandler создает обработчик каталога мест.
func NewPlaceHandler(catalog *places.Catalog) *PlaceHandler {
	return &PlaceHandler{Catalog: catalog}
}

// Search ищет места по локации и категории.
func (h *PlaceHandler) Search(c echo.Context) error {
	location := c.QueryParam("location")
	if location == "" {
		return badRequest(c, "location is required")
	}

	results := h.Catalog.Search(location, c.QueryParam("type"))
	return c.JSON(http.StatusOK, map[string]interface{}{"places": results})
}

// Categories возвращает известные категории мест.
func (h *PlaceHandler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"categories": h.Catalog.Categories()})
}

// Get возвращает место по идентификатору.
func (h *PlaceHandler) Get(c echo.Context) error {
	place, ok := h.Catalog.Get(c.Param("placeId"))
	if !ok {
		return notFound(c, "place not found")
	}

	return c.JSON(http.StatusOK, place)
}
