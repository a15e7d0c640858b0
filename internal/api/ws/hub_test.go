package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/ws"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/server/middleware"
)

func TestLocalBroker_FanOut(t *testing.T) {
	t.Parallel()

	b := ws.NewLocalBroker()
	ctx := t.Context()

	a, cleanA, err := b.Subscribe(ctx, "t1")
	require.NoError(t, err)
	defer cleanA()
	c, cleanC, err := b.Subscribe(ctx, "t1")
	require.NoError(t, err)
	defer cleanC()
	other, cleanOther, err := b.Subscribe(ctx, "t2")
	require.NoError(t, err)
	defer cleanOther()

	require.NoError(t, b.Publish(ctx, "t1", []byte("hello")))

	assert.Equal(t, []byte("hello"), <-a)
	assert.Equal(t, []byte("hello"), <-c)
	select {
	case msg := <-other:
		t.Fatalf("unexpected message on other tenant: %s", msg)
	default:
	}
}

func TestLocalBroker_CleanupClosesChannel(t *testing.T) {
	t.Parallel()

	b := ws.NewLocalBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch, cleanup, err := b.Subscribe(ctx, "t1")
	require.NoError(t, err)

	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Idempotent, and publishing afterwards does not panic.
	cleanup()
	require.NoError(t, b.Publish(context.Background(), "t1", []byte("late")))
}

func TestHub_ServeBoard_StreamsTenantEvents(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(ws.NewLocalBroker())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.WithIdentity(r.Context(), "t1", "u1", domain.RoleAdmin)
		hub.ServeBoard(w, r.WithContext(ctx))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	// The subscription is registered asynchronously after the upgrade; keep
	// publishing until the first event arrives.
	received := make(chan ws.BoardEvent, 1)
	go func() {
		var ev ws.BoardEvent
		if err := wsjson.Read(ctx, conn, &ev); err == nil {
			received <- ev
		}
	}()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev := <-received:
			assert.Equal(t, ws.EventTaskCreated, ev.Type)
			assert.Equal(t, "tk1", ev.TaskID)
			return
		case <-ticker.C:
			require.NoError(t, hub.PublishBoard(ctx, "t2", ws.BoardEvent{Type: ws.EventTaskDeleted, TaskID: "other"}))
			require.NoError(t, hub.PublishBoard(ctx, "t1", ws.BoardEvent{Type: ws.EventTaskCreated, TaskID: "tk1"}))
		case <-ctx.Done():
			t.Fatal("timed out waiting for board event")
		}
	}
}

func TestHub_ServeBoard_MissingTenant(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(ws.NewLocalBroker())
	rec := httptest.NewRecorder()

	hub.ServeBoard(rec, httptest.NewRequest(http.MethodGet, "/ws/board", http.NoBody))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
