package handlers

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/deliverlabs/food-ordering-service/internal/realtime"
	"github.com/deliverlabs/food-ordering-service/internal/service"
)

// RealtimeHandler upgrades subscription endpoints to websocket connections and
// joins them to the matching hub group.
type RealtimeHandler struct {
	hub          *realtime.Hub
	orders       *service.OrderService
	writeTimeout time.Duration
	outboxSize   int
	logger       *zap.Logger
}

// NewRealtimeHandler constructs handler.
func NewRealtimeHandler(hub *realtime.Hub, orderService *service.OrderService, writeTimeout time.Duration, outboxSize int, logger *zap.Logger) *RealtimeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeHandler{hub: hub, orders: orderService, writeTimeout: writeTimeout, outboxSize: outboxSize, logger: logger}
}

// RequireUpgrade rejects plain HTTP requests on websocket routes.
func (h *RealtimeHandler) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// RequireOrder rejects customer subscriptions for unknown orders before upgrading.
func (h *RealtimeHandler) RequireOrder(c *fiber.Ctx) error {
	if _, err := h.orders.GetOrder(c.UserContext(), c.Params("order_id")); err != nil {
		return err
	}
	return c.Next()
}

// Staff handles /ws/admin.
func (h *RealtimeHandler) Staff() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.serve(conn, realtime.GroupStaff, "")
	})
}

// Delivery handles /ws/delivery/:person_id.
func (h *RealtimeHandler) Delivery() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.serve(conn, realtime.GroupDelivery, conn.Params("person_id"))
	})
}

// Customer handles /ws/client/:order_id.
func (h *RealtimeHandler) Customer() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.serve(conn, realtime.GroupCustomer, conn.Params("order_id"))
	})
}

func (h *RealtimeHandler) serve(conn *websocket.Conn, group realtime.Group, key string) {
	sub := realtime.NewConnSubscriber(conn, key, h.writeTimeout, h.outboxSize)
	h.logger.Info("subscriber connected",
		zap.String("group", string(group)),
		zap.String("key", key),
		zap.String("subscriber_id", sub.ID()))
	if err := realtime.Serve(h.hub, group, sub); err != nil {
		h.logger.Warn("subscriber rejected", zap.String("group", string(group)), zap.Error(err))
		return
	}
	h.logger.Info("subscriber disconnected",
		zap.String("group", string(group)),
		zap.String("subscriber_id", sub.ID()))
}
