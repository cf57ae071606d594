package gateway

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizmatters/agent-builder/testcase-generator/internal/generation"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/models"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/ratelimit"
	"github.com/bizmatters/agent-builder/testcase-generator/internal/storage"
)

type rawEvent struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

func dialStream(t *testing.T, s *testServer) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/generate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntilClose collects events until the server closes the connection.
func readUntilClose(t *testing.T, conn *websocket.Conn) ([]rawEvent, error) {
	t.Helper()
	var events []rawEvent
	for {
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		var ev rawEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

func TestStreamGenerate(t *testing.T) {
	s := newTestServer(t)
	conn := dialStream(t, s)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"acceptanceCriteria": "Users can search orders by date",
		"numberOfScenarios":  2,
		"numberOfSteps":      2,
	}))

	events, err := readUntilClose(t, conn)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	var types []string
	for _, ev := range events {
		types = append(types, ev.EventType)
	}
	assert.Equal(t, []string{EventProgress, EventProgress, EventProgress, EventCategoryComplete, EventResult}, types)

	var started generation.Progress
	require.NoError(t, json.Unmarshal(events[0].Data, &started))
	assert.Equal(t, generation.StageCategoryStarted, started.Stage)
	assert.Equal(t, generation.Positive, started.Category)

	var ready generation.Progress
	require.NoError(t, json.Unmarshal(events[1].Data, &ready))
	assert.Equal(t, generation.StageScenarioReady, ready.Stage)
	assert.True(t, strings.HasPrefix(ready.Title, "Verify"))

	var result GenerateResponse
	require.NoError(t, json.Unmarshal(events[4].Data, &result))
	assert.True(t, result.Success)
	assert.Equal(t, 6, result.Count)
	assert.Equal(t, 2, result.Scenarios)

	stored, err := s.store.List(t.Context(), storage.Filter{})
	require.NoError(t, err)
	assert.Len(t, stored, 6)
}

func TestStreamGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		opts     []ratelimit.Option
		exhaust  bool
		payload  string
		wantCode string
	}{
		{name: "invalid_json", payload: `{"acceptanceCriteria":`, wantCode: models.ErrCodeInvalidRequest},
		{name: "validation", payload: `{"acceptanceCriteria":"short"}`, wantCode: models.ErrCodeValidationFailed},
		{name: "rate_limited", opts: []ratelimit.Option{ratelimit.WithLimits(1, 10)}, exhaust: true, payload: `{"acceptanceCriteria":"Users can search orders"}`, wantCode: models.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.opts...)
			if tt.exhaust {
				require.NoError(t, s.limiter.CheckAndConsume())
			}
			conn := dialStream(t, s)
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))

			events, _ := readUntilClose(t, conn)
			require.Len(t, events, 1)
			assert.Equal(t, EventError, events[0].EventType)

			var errResp models.ErrorResponse
			require.NoError(t, json.Unmarshal(events[0].Data, &errResp))
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}
