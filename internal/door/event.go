// Package door models the smart-door companion: the state shown on the
// door panel, the named events that update it, and the HTTP status API.
package door

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Event names pushed by the door device.
const (
	EventObjectDetected = "object_detected"
	EventFaceRecognise  = "face_recognise"
	EventDoorStatus     = "door_status"
	EventArduinoStatus  = "Arduino_status"
	EventImageData      = "image_data"
	EventServerStatus   = "server_status"
)

// UnknownFace is the face name before anyone has been recognised.
const UnknownFace = "unknown"

var (
	// ErrUnknownEvent is reported for event names the reducer does not handle.
	ErrUnknownEvent = errors.New("unknown door event")
	// ErrBadPayload is reported when an event payload has the wrong shape.
	ErrBadPayload = errors.New("malformed door event payload")
)

// State is the door panel's view of the device.
type State struct {
	ObjectStatus  string    `json:"object_status"`
	FaceName      string    `json:"face_name"`
	DoorStatus    string    `json:"door_status"`
	ArduinoStatus string    `json:"arduino_status"`
	Image         []byte    `json:"image,omitempty"`
	PersonStatus  string    `json:"person_status"`
	ServerStatus  string    `json:"server_status"`
	LastError     string    `json:"last_error,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewState returns the state before any event arrived.
func NewState() State {
	return State{FaceName: UnknownFace}
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	if s.Image != nil {
		s.Image = append([]byte(nil), s.Image...)
	}
	return s
}

// DeviceConnected reports whether the board announced itself.
func (s State) DeviceConnected() bool {
	return s.ArduinoStatus == "Device is connected"
}

// Presence describes who is at the door, as served on /person-status.
func (s State) Presence() string {
	switch {
	case s.FaceName != "" && s.FaceName != UnknownFace:
		return s.FaceName + " is at the door"
	case s.ObjectStatus != "":
		return s.ObjectStatus
	default:
		return "No one at the door"
	}
}

// Event is a named push event with its raw JSON payload.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
	At   time.Time       `json:"at"`
}

// Apply folds one event into the state. Each event sets exactly one field.
// Unknown events and malformed payloads leave the state unchanged.
func Apply(s State, e Event) (State, error) {
	next := s.Clone()

	switch e.Name {
	case EventObjectDetected, EventFaceRecognise, EventDoorStatus, EventServerStatus:
		v, err := decodeText(e.Data)
		if err != nil {
			return s, fmt.Errorf("%s: %w", e.Name, err)
		}
		switch e.Name {
		case EventObjectDetected:
			next.ObjectStatus = v
		case EventFaceRecognise:
			next.FaceName = v
		case EventDoorStatus:
			next.DoorStatus = v
		default:
			next.ServerStatus = v
		}
	case EventArduinoStatus:
		var payload struct {
			ArduinoStatus *string `json:"arduino_status"`
		}
		if err := json.Unmarshal(e.Data, &payload); err != nil || payload.ArduinoStatus == nil {
			return s, fmt.Errorf("%s: %w", e.Name, ErrBadPayload)
		}
		next.ArduinoStatus = *payload.ArduinoStatus
	case EventImageData:
		img, err := decodeImage(e.Data)
		if err != nil {
			return s, fmt.Errorf("%s: %w", e.Name, err)
		}
		next.Image = img
	default:
		return s, fmt.Errorf("%q: %w", e.Name, ErrUnknownEvent)
	}

	if !e.At.IsZero() {
		next.UpdatedAt = e.At
	}
	return next, nil
}

// decodeText accepts a bare JSON string or {"data": "..."}.
func decodeText(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", ErrBadPayload
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var wrapped struct {
		Data *string `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Data == nil {
		return "", ErrBadPayload
	}
	return *wrapped.Data, nil
}

// decodeImage accepts {"data": "<base64>"} or the device's raw byte array
// form {"data": [255, 216, ...]}.
func decodeImage(raw json.RawMessage) ([]byte, error) {
	var payload struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Data) == 0 || isNull(payload.Data) {
		return nil, ErrBadPayload
	}

	trimmed := bytes.TrimSpace(payload.Data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ints []int
		if err := json.Unmarshal(trimmed, &ints); err != nil {
			return nil, ErrBadPayload
		}
		out := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, ErrBadPayload
			}
			out[i] = byte(v)
		}
		return out, nil
	}

	var encoded string
	if err := json.Unmarshal(trimmed, &encoded); err != nil {
		return nil, ErrBadPayload
	}
	img, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrBadPayload
	}
	return img, nil
}

// isNull reports a JSON null, which unmarshals into zero values without error.
func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
