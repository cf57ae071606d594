package gateway

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/ratelimit"
)

// Stream event types.
const (
	EventProgress         = "progress"
	EventCategoryComplete = "category_complete"
	EventResult           = "result"
	EventError            = "error"
)

const requestReadTimeout = 30 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	HandshakeTimeout: 10 * time.Second,
}

// StreamEvent is one message sent to a stream client.
type StreamEvent struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

// StreamGenerate handles WebSocket /api/ws/generate. The client sends one
// GenerateRequest; the server streams progress events, then a result or error
// event, and closes the connection.
// @Summary Stream test case generation
// @Description WebSocket endpoint that reports per-category progress while generating
// @Tags testcases
// @Success 101 "Switching Protocols"
// @Router /ws/generate [get]
func (h *Handler) StreamGenerate(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "gateway.stream_generate")
	defer span.End()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(requestReadTimeout))
	var body GenerateRequest
	if err := conn.ReadJSON(&body); err != nil {
		log.Printf("Failed to read generate request: %v", err)
		sendErrorToClient(conn, models.ErrorResponse{Error: "Invalid request", Code: models.ErrCodeInvalidRequest})
		closeNormally(conn)
		return
	}
	conn.SetReadDeadline(time.Time{})

	req, err := body.toRequest()
	if err == nil {
		span.SetAttributes(attribute.String("mode", string(req.Mode())))
		err = h.limiter.Check()
	}
	if err != nil {
		sendErrorToClient(conn, streamError(err))
		closeNormally(conn)
		return
	}

	// A client that goes away cancels the generation.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("Stream client read error: %v", err)
				}
				cancel()
				return
			}
		}
	}()

	writeFailed := false
	progress := func(p generation.Progress) {
		if writeFailed {
			return
		}
		eventType := EventProgress
		if p.Stage == generation.StageCategoryComplete {
			eventType = EventCategoryComplete
		}
		if err := conn.WriteJSON(StreamEvent{EventType: eventType, Data: p}); err != nil {
			log.Printf("Failed to send progress to client: %v", err)
			writeFailed = true
			cancel()
		}
	}

	resp, err := h.generate(ctx, req, progress)
	if err != nil {
		span.RecordError(err)
		sendErrorToClient(conn, streamError(err))
		closeNormally(conn)
		return
	}
	if ctx.Err() != nil {
		log.Printf(`{"level":"warn","message":"Stream client left before the result","rows":%d}`, resp.Count)
		return
	}

	if err := conn.WriteJSON(StreamEvent{EventType: EventResult, Data: resp}); err != nil {
		log.Printf("Failed to send result to client: %v", err)
		return
	}
	closeNormally(conn)
}

func streamError(err error) models.ErrorResponse {
	var validationErr *generation.ValidationError
	var rateErr *ratelimit.ExceededError
	switch {
	case errors.As(err, &validationErr):
		return models.ErrorResponse{Error: validationErr.Message, Code: models.ErrCodeValidationFailed, Details: map[string]string{"field": validationErr.Field}}
	case errors.As(err, &rateErr):
		return models.ErrorResponse{Error: rateErr.Error(), Code: models.ErrCodeRateLimited, Details: map[string]string{"window": string(rateErr.Window)}}
	default:
		log.Printf(`{"level":"error","message":"Stream generation failed","error":%q}`, err.Error())
		return models.ErrorResponse{Error: "An unexpected error occurred while generating test cases", Code: models.ErrCodeInternalError}
	}
}

// sendErrorToClient sends an error event to the WebSocket client
func sendErrorToClient(conn *websocket.Conn, errResp models.ErrorResponse) {
	if err := conn.WriteJSON(StreamEvent{EventType: EventError, Data: errResp}); err != nil {
		log.Printf("Failed to send error to client: %v", err)
	}
}

func closeNormally(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second)); err != nil {
		log.Printf("Failed to send close message: %v", err)
	}
}
