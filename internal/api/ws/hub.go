package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/server/middleware"
)

// Hub manages WebSocket connections backed by a Broker.
type Hub struct {
	broker Broker
}

// NewHub creates a new WebSocket hub.
func NewHub(broker Broker) *Hub {
	return &Hub{broker: broker}
}

// ServeBoard streams the caller's tenant board events. It must run behind the
// Auth middleware.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok || tenantID == "" {
		http.Error(w, "missing tenant", http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// Reads are not expected; CloseRead handles control frames and cancels
	// ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())
	clientID := uuid.NewString()

	messages, cleanup, err := h.broker.Subscribe(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	log.Debug().Str("client_id", clientID).Str("tenant_id", tenantID).Msg("board stream opened")
	defer log.Debug().Str("client_id", clientID).Msg("board stream closed")

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Str("client_id", clientID).Msg("websocket write")
				return
			}
		}
	}
}

// PublishBoard sends a board event to every subscriber of the tenant.
func (h *Hub) PublishBoard(ctx context.Context, tenantID string, ev BoardEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("ws.Hub.PublishBoard: %w", err)
	}
	if err := h.broker.Publish(ctx, tenantID, payload); err != nil {
		return fmt.Errorf("ws.Hub.PublishBoard: %w", err)
	}
	return nil
}
