package websocket

import (
	"time"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeDelta    MessageType = "delta"
	MessageTypeResponse MessageType = "response"
	MessageTypeState    MessageType = "state"
	MessageTypeError    MessageType = "error"
)

// WSMessage represents the structure of WebSocket messages
type WSMessage struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Sequence  int         `json:"sequence,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// TextMessage contains text input payload
type TextMessage struct {
	Content string `json:"content"`
}

// ErrorMessage contains error information
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseMessage contains the agent's reply
type ResponseMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// DeltaMessage is one streamed chunk of the reply
type DeltaMessage struct {
	Content string `json:"content"`
	Index   uint   `json:"index"`
}
