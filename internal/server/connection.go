package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/handreplayer/internal/game"
	"github.com/lox/handreplayer/internal/recorder"
	"github.com/lox/handreplayer/internal/replay"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	recorder  *recorder.Recorder
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, rec *recorder.Recorder) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:     conn,
		send:     make(chan *Message, 256),
		logger:   logger.WithPrefix("conn"),
		ctx:      ctx,
		cancel:   cancel,
		recorder: rec,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A client that cannot keep up
// is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// decode unmarshals a message payload. An absent payload decodes to the zero
// value.
func decode[T any](msg *Message) (T, error) {
	var data T
	if len(msg.Data) == 0 || bytes.Equal(msg.Data, []byte("null")) {
		return data, nil
	}
	err := json.Unmarshal(msg.Data, &data)
	return data, err
}

// handleMessage processes incoming messages from the client. Changes reach
// every client as a state broadcast, so successful intents get no direct reply.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	var err error
	switch msg.Type {
	case MessageTypeGetState:
		c.reply(msg, MessageTypeState, c.recorder.View())
		return

	case MessageTypeAction:
		var data ActionData
		if data, err = decode[ActionData](msg); err == nil {
			err = c.handleAction(data)
		}

	case MessageTypeOpenSizing:
		_, err = c.recorder.OpenSizing()

	case MessageTypeConfirmSizing:
		var data SizingData
		if data, err = decode[SizingData](msg); err == nil {
			err = c.recorder.ConfirmSizing(data.Amount)
		}

	case MessageTypeCancelSizing:
		err = c.recorder.CancelSizing()

	case MessageTypeHoleCard:
		var data HoleCardData
		if data, err = decode[HoleCardData](msg); err == nil {
			err = c.recorder.AssignHoleCard(data.Seat, data.Slot, data.Card)
		}

	case MessageTypeBoardCard:
		var data BoardCardData
		if data, err = decode[BoardCardData](msg); err == nil {
			err = c.recorder.AssignBoardCard(data.Slot, data.Card)
		}

	case MessageTypeSetHero:
		var data SeatData
		if data, err = decode[SeatData](msg); err == nil {
			err = c.recorder.SetHero(data.Seat)
		}

	case MessageTypeSetName:
		var data NameData
		if data, err = decode[NameData](msg); err == nil {
			err = c.recorder.SetPlayerName(data.Seat, data.Name)
		}

	case MessageTypeSetStack:
		var data StackData
		if data, err = decode[StackData](msg); err == nil {
			err = c.recorder.SetStack(data.Seat, recorder.ParseAmount(data.Stack))
		}

	case MessageTypeSetDealer:
		var data SeatData
		if data, err = decode[SeatData](msg); err == nil {
			err = c.recorder.SetDealer(data.Seat)
		}

	case MessageTypeTableSize:
		var data TableSizeData
		if data, err = decode[TableSizeData](msg); err == nil {
			err = c.recorder.SetTableSize(data.Size)
		}

	case MessageTypeStakes:
		var data StakesData
		if data, err = decode[StakesData](msg); err == nil {
			err = c.recorder.SetStakes(recorder.ParseAmount(data.SmallBlind), recorder.ParseAmount(data.BigBlind))
		}

	case MessageTypeNewHand:
		c.recorder.NewHand()

	case MessageTypeResetHand:
		c.recorder.Reset()

	case MessageTypeUndo:
		c.recorder.Undo()

	case MessageTypeRedo:
		c.recorder.Redo()

	case MessageTypeReplayStart:
		err = c.recorder.StartReplay()

	case MessageTypeReplayStop:
		c.recorder.StopReplay()

	case MessageTypeGetHistory:
		var text string
		if text, err = c.recorder.HandHistory(); err == nil {
			c.reply(msg, MessageTypeHandHistory, HandHistoryData{HandID: c.recorder.HandID(), Text: text})
			return
		}

	case MessageTypeExportPHH:
		var buf bytes.Buffer
		if err = c.recorder.ExportPHH(&buf); err == nil {
			c.reply(msg, MessageTypePHH, PHHData{HandID: c.recorder.HandID(), TOML: buf.String()})
			return
		}

	case MessageTypeSaveHistory:
		var path string
		if path, err = c.recorder.SaveHistory(); err == nil {
			c.reply(msg, MessageTypeHistorySaved, HistorySavedData{HandID: c.recorder.HandID(), Path: path})
			return
		}

	default:
		c.sendError(msg, "unknown_message_type", "Unknown message type: "+msg.Type.String())
		return
	}

	if err != nil {
		c.logger.Debug("Rejected message", "type", msg.Type, "error", err)
		c.sendError(msg, errorCode(err), err.Error())
	}
}

func (c *Connection) handleAction(data ActionData) error {
	t, ok := game.ParseActionType(data.Action)
	if !ok {
		return errUnknownAction
	}
	return c.recorder.Act(game.Intent{Type: t, Amount: recorder.ParseAmount(data.Amount)})
}

var errUnknownAction = errors.New("unknown action")

// errorCode maps an error onto the code sent to the client.
func errorCode(err error) string {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax), errors.As(err, &typeErr):
		return "invalid_message"
	case errors.Is(err, errUnknownAction):
		return "unknown_action"
	case errors.Is(err, game.ErrIllegalAction):
		return "illegal_action"
	case errors.Is(err, game.ErrHandComplete):
		return "hand_complete"
	case errors.Is(err, game.ErrWaitingForBoard):
		return "waiting_for_board"
	case errors.Is(err, game.ErrInvalidCard):
		return "invalid_card"
	case errors.Is(err, game.ErrDuplicateCard):
		return "duplicate_card"
	case errors.Is(err, game.ErrInvalidSeat):
		return "invalid_seat"
	case errors.Is(err, recorder.ErrNoSizing):
		return "no_sizing"
	case errors.Is(err, recorder.ErrReplayRunning):
		return "replay_running"
	case errors.Is(err, replay.ErrEmptyLog):
		return "empty_log"
	case errors.Is(err, recorder.ErrInvalidTableSize), errors.Is(err, recorder.ErrInvalidStakes):
		return "invalid_config"
	case errors.Is(err, recorder.ErrNoWriter):
		return "history_disabled"
	}
	return "error"
}

// reply sends a response carrying the request's ID.
func (c *Connection) reply(req *Message, t MessageType, data any) {
	msg, err := NewMessage(t, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(req *Message, code, message string) {
	c.reply(req, MessageTypeError, ErrorData{Code: code, Message: message})
}
