package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Gatofitnees/Appmovil-sub001/internal/dto"
)

// WebhookAuth compares the Authorization header against the configured
// RevenueCat webhook secret. Exact string match, no scheme parsing: the
// dashboard sends whatever value was configured, verbatim. An empty
// configured secret rejects everything rather than letting all callers in.
func WebhookAuth(secret string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if header == "" || secret == "" || header != secret {
				logger.Warn("unauthorized webhook call",
					zap.Bool("header_present", header != ""),
					zap.Bool("secret_configured", secret != ""))
				return c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
			}
			return next(c)
		}
	}
}
