package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/vicinity-social/vicinity/internal/config"
	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/present/rest/presenter"
	"github.com/vicinity-social/vicinity/internal/service"
	"github.com/vicinity-social/vicinity/internal/usecase"
)

type Handler struct {
	discovery    *usecase.DiscoveryUsecase
	notification *usecase.NotificationUsecase
	presence     *service.Registry
	defaults     config.Discovery
}

func NewHandler(
	discovery *usecase.DiscoveryUsecase,
	notification *usecase.NotificationUsecase,
	presence *service.Registry,
	defaults config.Discovery,
) *Handler {
	return &Handler{
		discovery:    discovery,
		notification: notification,
		presence:     presence,
		defaults:     defaults,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/nearby", h.handleNearby)
	e.PUT("/api/v1/location", h.handleLocation)
	e.POST("/api/v1/notifications", h.handleDispatch)
	e.GET("/api/v1/notifications", h.handleNotifications)
	e.PATCH("/api/v1/notifications/:id/read", h.handleMarkRead)
	e.GET("/realtime", h.handleRealtime)
}

func requesterID(c echo.Context) string {
	id, _ := c.Request().Context().Value(domain.RequesterIdCtxKey).(string)
	return id
}

func (h *Handler) handleNearby(c echo.Context) error {
	ctx := c.Request().Context()

	userID := requesterID(c)
	if userID == "" {
		return presenter.Unauthorized(c, "requester identity required")
	}

	radius := h.defaults.DefaultRadiusKm
	if radiusStr := c.QueryParam("radius"); radiusStr != "" {
		parsed, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid radius parameter")
		}
		radius = parsed
	}

	limit := h.defaults.DefaultLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid limit parameter")
		}
		limit = parsed
	}
	if limit > h.defaults.MaxLimit {
		limit = h.defaults.MaxLimit
	}

	candidates, err := h.discovery.Discover(ctx, userID, radius, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "profile not found")
		}
		if errors.Is(err, domain.ErrInvalidArgument) {
			return presenter.BadRequest(c, err)
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, presenter.Candidates(candidates))
}

func (h *Handler) handleLocation(c echo.Context) error {
	ctx := c.Request().Context()

	userID := requesterID(c)
	if userID == "" {
		return presenter.Unauthorized(c, "requester identity required")
	}

	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Latitude == nil || req.Longitude == nil {
		return presenter.BadRequestMessage(c, "latitude and longitude are required")
	}

	err := h.discovery.AnnounceLocation(ctx, userID, domain.Point{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return presenter.BadRequest(c, err)
		}
		return presenter.InternalError(c, err)
	}

	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleDispatch(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		User    string                   `json:"user"`
		Message string                   `json:"message"`
		Link    string                   `json:"link"`
		Meta    *domain.NotificationMeta `json:"meta"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	record, err := h.notification.Dispatch(ctx, req.User, req.Message, req.Link, req.Meta)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	if record == nil {
		return c.NoContent(http.StatusNoContent)
	}

	return presenter.OK(c, record)
}

func (h *Handler) handleNotifications(c echo.Context) error {
	ctx := c.Request().Context()

	userID := requesterID(c)
	if userID == "" {
		return presenter.Unauthorized(c, "requester identity required")
	}

	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid limit parameter")
		}
		limit = parsed
	}

	records, err := h.notification.ListByUser(ctx, userID, limit)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, records)
}

func (h *Handler) handleMarkRead(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.notification.MarkRead(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "notification not found")
		}
		if errors.Is(err, domain.ErrInvalidArgument) {
			return presenter.BadRequest(c, err)
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}

	ctx := c.Request().Context()
	conn := newWSConn(ws)
	defer func() {
		h.presence.Leave(conn)
		conn.Close()
	}()

	for {
		var req realtimeRequest
		err := ws.ReadJSON(&req)
		if err != nil {

			wsErr, ok := err.(*websocket.CloseError)
			if ok {
				if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
					slog.DebugContext(
						ctx, "WebSocket closed",
						slog.String("error", wsErr.Error()),
						slog.String("module", "socket"),
					)
				}
			} else {
				slog.ErrorContext(
					ctx, "Error reading message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
			}

			return nil
		}

		switch req.Type {
		case "join":
			if req.User == "" {
				slog.InfoContext(
					ctx, "join without identity",
					slog.String("module", "socket"),
				)
				continue
			}
			h.presence.Join(req.User, conn)
			slog.DebugContext(
				ctx, "Socket join",
				slog.String("user", req.User),
				slog.String("module", "socket"),
			)
		case "h": // heartbeat
			// do nothing
		default:
			slog.InfoContext(
				ctx, "Unknown request type",
				slog.String("type", req.Type),
				slog.String("module", "socket"),
			)
		}
	}
}
