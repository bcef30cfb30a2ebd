package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

func respondData(c echo.Context, code int, data any) error {
	return c.JSON(code, echo.Map{"success": true, "data": data})
}

func respondError(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"success": false, "error": msg})
}

func respondNotFound(c echo.Context, msg string) error {
	return respondError(c, http.StatusNotFound, msg)
}

func respondServerError(c echo.Context) error {
	return respondError(c, http.StatusInternalServerError, "Error del servidor")
}

func CreateCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

func DeleteCookie(name, path string) *http.Cookie {
	return CreateCookie(name, "", path, time.Now().Add(-1*time.Hour))
}
