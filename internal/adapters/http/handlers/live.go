package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/dto"
	"github.com/jsamuelsen/invoice-builder/internal/app"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
)

const (
	liveWriteWait      = 10 * time.Second
	livePongWait       = 60 * time.Second
	livePingPeriod     = livePongWait * 9 / 10
	liveMaxMessageSize = 64 << 10
)

// Live message types.
const (
	LiveTypeView  = "view"
	LiveTypeError = "error"
)

// Live command actions.
const (
	LiveActionAddItem    = "add_item"
	LiveActionUpdateItem = "update_item"
	LiveActionRemoveItem = "remove_item"
	LiveActionClearItems = "clear_items"
)

// LiveMessage is pushed to websocket clients.
type LiveMessage struct {
	Type  string           `json:"type"`
	View  *app.View        `json:"view,omitempty"`
	Error *dto.ErrorDetail `json:"error,omitempty"`
}

// LiveCommand is an edit sent by a websocket client.
type LiveCommand struct {
	Action string   `json:"action"`
	Index  int      `json:"index"`
	Field  string   `json:"field,omitempty"`
	Value  dto.Text `json:"value,omitempty"`
}

// LiveHandler streams workspace views over a websocket and applies edits sent
// by the client. Every connected client sees every change.
type LiveHandler struct {
	workspace *app.Workspace
	upgrader  websocket.Upgrader
}

// NewLiveHandler creates a live handler. A nil checkOrigin allows same-origin
// requests only.
func NewLiveHandler(workspace *app.Workspace, checkOrigin func(r *http.Request) bool) *LiveHandler {
	return &LiveHandler{
		workspace: workspace,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Live handles GET /api/v1/workspace/live
//
// @Summary Live workspace view
// @Description Websocket. Pushes a view on connect and after every change.
// @Tags workspace
// @Router /api/v1/workspace/live [get]
func (h *LiveHandler) Live(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		return
	}
	defer conn.Close()

	sub := h.workspace.Subscribe()
	defer sub.Close()

	ctx := logging.WithAttrs(c.Request.Context(), slog.String("subscriber_id", sub.ID))
	logger := logging.FromContext(ctx)
	logger.InfoContext(ctx, "live client connected")

	errs := make(chan dto.ErrorDetail, 4)
	done := make(chan struct{})

	go h.readCommands(ctx, conn, errs, done)

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		var msg LiveMessage

		select {
		case view, ok := <-sub.Views:
			if !ok {
				return
			}

			msg = LiveMessage{Type: LiveTypeView, View: &view}
		case detail := <-errs:
			msg = LiveMessage{Type: LiveTypeError, Error: &detail}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}

			continue
		case <-done:
			logger.InfoContext(ctx, "live client disconnected")
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))

		if err := conn.WriteJSON(msg); err != nil {
			logger.DebugContext(ctx, "live write failed", slog.Any("error", err))
			return
		}
	}
}

// readCommands applies client edits until the connection closes.
func (h *LiveHandler) readCommands(ctx context.Context, conn *websocket.Conn, errs chan<- dto.ErrorDetail, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(liveMaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				logging.FromContext(ctx).DebugContext(ctx, "live read ended", slog.Any("error", err))
			}

			return
		}

		var cmd LiveCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			report(errs, dto.ErrorDetail{Code: dto.ErrorCodeBadRequest, Message: "malformed command"})
			continue
		}

		if err := h.apply(ctx, cmd); err != nil {
			_, resp := dto.MapDomainError(err)
			report(errs, resp.Error)
		}
	}
}

// report never blocks the reader; excess errors are dropped.
func report(errs chan<- dto.ErrorDetail, detail dto.ErrorDetail) {
	select {
	case errs <- detail:
	default:
	}
}

func (h *LiveHandler) apply(ctx context.Context, cmd LiveCommand) error {
	var err error

	switch cmd.Action {
	case LiveActionAddItem:
		h.workspace.AddItem(ctx)
	case LiveActionUpdateItem:
		_, err = h.workspace.UpdateItemField(ctx, cmd.Index, cmd.Field, string(cmd.Value))
	case LiveActionRemoveItem:
		_, err = h.workspace.RemoveItem(ctx, cmd.Index)
	case LiveActionClearItems:
		h.workspace.ClearItems(ctx)
	default:
		err = errUnknownAction(cmd.Action)
	}

	return err
}

func errUnknownAction(action string) error {
	return domain.NewValidationErrorWithValue("action",
		"must be one of add_item, update_item, remove_item, clear_items", action)
}
