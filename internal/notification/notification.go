package notification

import (
	"encoding/json"
	"fmt"
)

// Tweaks carries per-device delivery hints supplied by the homeserver.
//
// Sound is kept as raw JSON because homeservers send strings, objects, and
// null here and the value is forwarded to backends untouched. A nil value
// means the field was absent.
type Tweaks struct {
	Sound json.RawMessage `json:"sound,omitempty"`
}

// Device identifies one push target within a notification.
//
// AppID and Pushkey are required; all other fields are optional. Data is
// forwarded to the backend verbatim.
type Device struct {
	AppID     string          `json:"app_id"`
	Pushkey   string          `json:"pushkey"`
	PushkeyTS int64           `json:"pushkey_ts,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Tweaks    Tweaks          `json:"tweaks,omitempty"`
}

// UnmarshalJSON validates required device fields while decoding.
//
// A device without app_id or pushkey makes the whole notification invalid;
// pushkey_ts defaults to zero when absent.
func (d *Device) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Msg: "Expected object in device list"}
	}

	if _, ok := raw["app_id"]; !ok {
		return &ValidationError{Msg: "Device with no app_id"}
	}
	if _, ok := raw["pushkey"]; !ok {
		return &ValidationError{Msg: "Device with no pushkey"}
	}

	type plain Device
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decoding device: %w", err)
	}
	*d = Device(p)
	return nil
}

// Counts carries the unread and missed-call badge counts.
// Nil pointers mean the homeserver did not send the field.
type Counts struct {
	Unread      *int64 `json:"unread,omitempty"`
	MissedCalls *int64 `json:"missed_calls,omitempty"`
}

// Notification is a single push poke from a homeserver.
//
// Only Devices is required. The remaining fields are optional and kept as
// raw JSON so that whatever the homeserver sent, including an explicit
// null, reaches the backend unchanged; a nil RawMessage means the field
// was absent from the request.
type Notification struct {
	EventID           json.RawMessage `json:"event_id,omitempty"`
	RoomID            json.RawMessage `json:"room_id,omitempty"`
	Type              json.RawMessage `json:"type,omitempty"`
	Sender            json.RawMessage `json:"sender,omitempty"`
	SenderDisplayName json.RawMessage `json:"sender_display_name,omitempty"`
	RoomName          json.RawMessage `json:"room_name,omitempty"`
	RoomAlias         json.RawMessage `json:"room_alias,omitempty"`
	Prio              json.RawMessage `json:"prio,omitempty"`
	Membership        json.RawMessage `json:"membership,omitempty"`
	UserIsTarget      json.RawMessage `json:"user_is_target,omitempty"`
	Content           json.RawMessage `json:"content,omitempty"`
	Counts            Counts          `json:"counts,omitempty"`
	Devices           []Device        `json:"devices"`
}

// UnmarshalJSON validates the notification structure while decoding.
//
// The devices key must be present and must be a JSON array. Device-level
// validation happens in Device.UnmarshalJSON.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Msg: "Expected object in 'notification' key"}
	}

	devices, ok := raw["devices"]
	if !ok || !isJSONArray(devices) {
		return &ValidationError{Msg: "Expected list in 'devices' key"}
	}

	type plain Notification
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Notification(p)
	return nil
}

// Parse decodes and validates a notification body.
//
// Returns:
//   - *Notification: The decoded notification
//   - error: A *ValidationError when the body fails validation
func Parse(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	if len(n.Devices) == 0 {
		return nil, &ValidationError{Msg: "No devices in notification"}
	}
	return &n, nil
}

// isJSONArray reports whether the raw value's first non-space byte opens
// a JSON array. An explicit null is not an array.
func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
