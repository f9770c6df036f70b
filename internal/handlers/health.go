package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health возвращает статус сервиса.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
