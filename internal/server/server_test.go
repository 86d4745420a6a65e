package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handreplayer/internal/gameid"
	"github.com/lox/handreplayer/internal/randutil"
	"github.com/lox/handreplayer/internal/recorder"
)

// stateData is the subset of the view-model the tests look at.
type stateData struct {
	HandID     string `json:"handId"`
	Street     string `json:"street"`
	Pot        int    `json:"pot"`
	ActiveSeat int    `json:"activeSeat"`
	Actions    []struct {
		Seat   int    `json:"seat"`
		Type   string `json:"type"`
		Amount int    `json:"amount"`
	} `json:"actions"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := log.New(io.Discard)
	rec, err := recorder.New(recorder.DefaultConfig(), logger,
		recorder.WithIDGenerator(gameid.NewGenerator(nil, randutil.New(7))))
	require.NoError(t, err)

	srv := NewServer("", rec, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, mt MessageType, requestID string, data any) {
	t.Helper()
	msg, err := NewMessage(mt, data)
	require.NoError(t, err)
	msg.RequestID = requestID
	require.NoError(t, conn.WriteJSON(msg))
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) stateData {
	t.Helper()
	msg := read(t, conn)
	require.Equal(t, MessageTypeState, msg.Type)
	var st stateData
	require.NoError(t, json.Unmarshal(msg.Data, &st))
	return st
}

func TestInitialState(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	st := readState(t, conn)
	assert.Equal(t, "preflop", st.Street)
	assert.Equal(t, 3, st.Pot)
	assert.Equal(t, 3, st.ActiveSeat)
	assert.Empty(t, st.Actions)
	assert.NoError(t, gameid.Validate(st.HandID))
}

func TestActionBroadcastsToAllClients(t *testing.T) {
	t.Parallel()
	srv, ts := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)
	readState(t, a)
	readState(t, b)

	require.Eventually(t, func() bool { return srv.ConnectionCount() == 2 }, time.Second, 10*time.Millisecond)

	send(t, a, MessageTypeAction, "", ActionData{Action: "raise", Amount: "6"})

	for _, conn := range []*websocket.Conn{a, b} {
		st := readState(t, conn)
		require.Len(t, st.Actions, 1)
		assert.Equal(t, 3, st.Actions[0].Seat)
		assert.Equal(t, "raise", st.Actions[0].Type)
		assert.Equal(t, 6, st.Actions[0].Amount)
		assert.Equal(t, 9, st.Pot)
		assert.Equal(t, 4, st.ActiveSeat)
	}
}

func TestRejectedIntentReturnsErrorCode(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readState(t, conn)

	tests := []struct {
		name string
		mt   MessageType
		data any
		code string
	}{
		{"check facing a bet", MessageTypeAction, ActionData{Action: "check"}, "illegal_action"},
		{"unknown action", MessageTypeAction, ActionData{Action: "muck"}, "unknown_action"},
		{"bad card", MessageTypeHoleCard, HoleCardData{Seat: 0, Slot: 0, Card: "Zz"}, "invalid_card"},
		{"no sizing open", MessageTypeConfirmSizing, SizingData{Amount: 10}, "no_sizing"},
		{"history disabled", MessageTypeSaveHistory, nil, "history_disabled"},
		{"bad table size", MessageTypeTableSize, TableSizeData{Size: 12}, "invalid_config"},
	}

	for _, tt := range tests {
		send(t, conn, tt.mt, tt.name, tt.data)
		msg := read(t, conn)
		require.Equal(t, MessageTypeError, msg.Type, tt.name)
		assert.Equal(t, tt.name, msg.RequestID)

		var data ErrorData
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		assert.Equal(t, tt.code, data.Code, tt.name)
	}
}

func TestUnknownMessageType(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readState(t, conn)

	send(t, conn, MessageType("deal_me_in"), "x", nil)
	msg := read(t, conn)
	require.Equal(t, MessageTypeError, msg.Type)

	var data ErrorData
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "unknown_message_type", data.Code)
}

func TestExportReplies(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	initial := readState(t, conn)

	for range 5 {
		send(t, conn, MessageTypeAction, "", ActionData{Action: "fold"})
		readState(t, conn)
	}

	send(t, conn, MessageTypeGetHistory, "hh-1", nil)
	msg := read(t, conn)
	require.Equal(t, MessageTypeHandHistory, msg.Type)
	assert.Equal(t, "hh-1", msg.RequestID)

	var hh HandHistoryData
	require.NoError(t, json.Unmarshal(msg.Data, &hh))
	assert.Equal(t, initial.HandID, hh.HandID)
	assert.Contains(t, hh.Text, "PokerStars Hand #"+initial.HandID)
	assert.Contains(t, hh.Text, "*** SUMMARY ***")

	send(t, conn, MessageTypeExportPHH, "phh-1", nil)
	msg = read(t, conn)
	require.Equal(t, MessageTypePHH, msg.Type)
	assert.Equal(t, "phh-1", msg.RequestID)

	var p PHHData
	require.NoError(t, json.Unmarshal(msg.Data, &p))
	assert.Contains(t, p.TOML, `variant = "NT"`)
	assert.Contains(t, p.TOML, `hand = "`+initial.HandID+`"`)
}

func TestGetStateReply(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readState(t, conn)

	send(t, conn, MessageTypeGetState, "s-1", nil)
	msg := read(t, conn)
	assert.Equal(t, MessageTypeState, msg.Type)
	assert.Equal(t, "s-1", msg.RequestID)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	health, err := WaitForHealthy(ctx, ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 0, health.Actions)
	assert.False(t, health.Replaying)
	assert.NoError(t, gameid.Validate(health.HandID))

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
