package server

import (
	"encoding/json"
	"time"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// ActionData is an action intent for the seat on the clock. Amount is the
// street total for bets and raises; anything that is not a number counts as 0.
type ActionData struct {
	Action string `json:"action"`
	Amount any    `json:"amount,omitempty"`
}

type SizingData struct {
	Amount any `json:"amount"`
}

type HoleCardData struct {
	Seat int    `json:"seat"`
	Slot int    `json:"slot"`
	Card string `json:"card"`
}

type BoardCardData struct {
	Slot int    `json:"slot"`
	Card string `json:"card"`
}

type SeatData struct {
	Seat int `json:"seat"`
}

type NameData struct {
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type StackData struct {
	Seat  int `json:"seat"`
	Stack any `json:"stack"`
}

type TableSizeData struct {
	Size int `json:"size"`
}

type StakesData struct {
	SmallBlind any `json:"smallBlind"`
	BigBlind   any `json:"bigBlind"`
}

// Server → Client Messages

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type HandHistoryData struct {
	HandID string `json:"handId"`
	Text   string `json:"text"`
}

type PHHData struct {
	HandID string `json:"handId"`
	TOML   string `json:"toml"`
}

type HistorySavedData struct {
	HandID string `json:"handId"`
	Path   string `json:"path"`
}
