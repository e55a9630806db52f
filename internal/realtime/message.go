package realtime

import (
	"encoding/json"
)

// Channels carried on the bus.
const (
	ChannelDoor     = "door"
	ChannelFeedback = "feedback"
	ChannelHome     = "home"
)

// Message is a named event on a channel. Data is kept as raw JSON so
// payloads pass through the bus untouched.
type Message struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewMessage marshals data into a message.
func NewMessage(channel, event string, data any) (Message, error) {
	msg := Message{Channel: channel, Event: event}
	if data == nil {
		return msg, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	msg.Data = raw
	return msg, nil
}
