package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client to server messages
	MessageTypeGetState      MessageType = "get_state"
	MessageTypeAction        MessageType = "action"
	MessageTypeOpenSizing    MessageType = "open_sizing"
	MessageTypeConfirmSizing MessageType = "confirm_sizing"
	MessageTypeCancelSizing  MessageType = "cancel_sizing"
	MessageTypeHoleCard      MessageType = "hole_card"
	MessageTypeBoardCard     MessageType = "board_card"
	MessageTypeSetHero       MessageType = "set_hero"
	MessageTypeSetName       MessageType = "set_name"
	MessageTypeSetStack      MessageType = "set_stack"
	MessageTypeSetDealer     MessageType = "set_dealer"
	MessageTypeTableSize     MessageType = "table_size"
	MessageTypeStakes        MessageType = "stakes"
	MessageTypeNewHand       MessageType = "new_hand"
	MessageTypeResetHand     MessageType = "reset_hand"
	MessageTypeUndo          MessageType = "undo"
	MessageTypeRedo          MessageType = "redo"
	MessageTypeReplayStart   MessageType = "replay_start"
	MessageTypeReplayStop    MessageType = "replay_stop"
	MessageTypeGetHistory    MessageType = "get_hand_history"
	MessageTypeExportPHH     MessageType = "export_phh"
	MessageTypeSaveHistory   MessageType = "save_hand_history"

	// Server to client messages
	MessageTypeState        MessageType = "state"
	MessageTypeError        MessageType = "error"
	MessageTypeHandHistory  MessageType = "hand_history"
	MessageTypePHH          MessageType = "phh"
	MessageTypeHistorySaved MessageType = "hand_history_saved"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
