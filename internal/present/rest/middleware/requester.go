package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/vicinity-social/vicinity/internal/domain"
)

// IdentifyRequester lifts the requester identity set by the upstream
// gateway into the request context. Authentication itself happens
// before traffic reaches this service; an absent header just leaves
// the request anonymous.
func IdentifyRequester(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(domain.RequesterIdHeader)
		if id != "" {
			ctx := context.WithValue(c.Request().Context(), domain.RequesterIdCtxKey, id)
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}
