// Package home is the smart-home relay: a button pressed on one client is
// forwarded to every other client, and the LED state they report back is
// kept so late joiners see it.
package home

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Event names. Clients send EventButtonClick and EventLEDState; the relay
// forwards a click as EventButtonRelay and the LED state under its own name.
const (
	EventButtonClick = "btnClick"
	EventButtonRelay = "button_click_client"
	EventLEDState    = "ledState"
)

const (
	LEDOn  = "on"
	LEDOff = "off"
)

var (
	ErrUnknownEvent = errors.New("unknown home event")
	ErrBadPayload   = errors.New("malformed home event payload")
)

var relayed = map[string]string{
	EventButtonClick: EventButtonRelay,
	EventLEDState:    EventLEDState,
}

// Relay maps an inbound client event to the name other clients receive.
func Relay(name string) (string, error) {
	out, ok := relayed[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownEvent)
	}
	return out, nil
}

// State is what the relay last saw.
type State struct {
	LED        string          `json:"led"`
	LastButton json.RawMessage `json:"last_button,omitempty"`
	PressedAt  time.Time       `json:"pressed_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewState() State {
	return State{LED: LEDOff}
}

// Event is a relayed event with its raw JSON payload.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
	At   time.Time       `json:"at"`
}

// Apply folds one relayed event into the state. Applying the same event
// twice gives the same state. The relay never toggles the LED itself; the
// device reports the result with EventLEDState.
func Apply(s State, e Event) (State, error) {
	next := s
	switch e.Name {
	case EventButtonRelay:
		next.PressedAt = e.At
		next.LastButton = nil
		if len(bytes.TrimSpace(e.Data)) > 0 {
			next.LastButton = append(json.RawMessage(nil), e.Data...)
		}
	case EventLEDState:
		led, err := decodeLED(e.Data)
		if err != nil {
			return s, fmt.Errorf("%s: %w", e.Name, err)
		}
		next.LED = led
	default:
		return s, fmt.Errorf("%q: %w", e.Name, ErrUnknownEvent)
	}

	if !e.At.IsZero() {
		next.UpdatedAt = e.At
	}
	return next, nil
}

// Toggle is the LED state a device reports after a click.
func Toggle(led string) string {
	if led == LEDOn {
		return LEDOff
	}
	return LEDOn
}

// LEDPayload is the body of an EventLEDState message.
func LEDPayload(led string) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{"ledState": led})
	return raw
}

// decodeLED accepts {"ledState": "on"|"off"}.
func decodeLED(raw json.RawMessage) (string, error) {
	var payload struct {
		LEDState *string `json:"ledState"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.LEDState == nil {
		return "", ErrBadPayload
	}
	switch *payload.LEDState {
	case LEDOn, LEDOff:
		return *payload.LEDState, nil
	default:
		return "", ErrBadPayload
	}
}
