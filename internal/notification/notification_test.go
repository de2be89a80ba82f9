package notification

import (
	"encoding/json"
	"errors"
	"testing"
)

// validBody is a representative notification from a homeserver.
const validBody = `{
	"event_id": "$3957tyerfgewrf384",
	"room_id": "!slw48wfj34rtnrf:example.com",
	"type": "m.room.message",
	"sender": "@exampleuser:example.com",
	"sender_display_name": "Major Tom",
	"room_name": "Mission Control",
	"prio": "high",
	"content": {"msgtype": "m.text", "body": "I'm floating in a most peculiar way."},
	"counts": {"unread": 2, "missed_calls": 1},
	"devices": [
		{
			"app_id": "com.example.app",
			"pushkey": "V2h5IG9uIGVhcnRo",
			"pushkey_ts": 12345678,
			"data": {},
			"tweaks": {"sound": "bing"}
		}
	]
}`

// ─── Parsing Tests ─────────────────────────────────────────────────

func TestParseValid(t *testing.T) {
	n, err := Parse([]byte(validBody))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(n.Devices) != 1 {
		t.Fatalf("len(Devices) = %d, want 1", len(n.Devices))
	}

	d := n.Devices[0]
	if d.AppID != "com.example.app" {
		t.Errorf("AppID = %q, want com.example.app", d.AppID)
	}
	if d.Pushkey != "V2h5IG9uIGVhcnRo" {
		t.Errorf("Pushkey = %q", d.Pushkey)
	}
	if d.PushkeyTS != 12345678 {
		t.Errorf("PushkeyTS = %d, want 12345678", d.PushkeyTS)
	}
	if string(d.Tweaks.Sound) != `"bing"` {
		t.Errorf("Tweaks.Sound = %s, want \"bing\"", d.Tweaks.Sound)
	}

	if n.Counts.Unread == nil || *n.Counts.Unread != 2 {
		t.Errorf("Counts.Unread = %v, want 2", n.Counts.Unread)
	}
	if n.Counts.MissedCalls == nil || *n.Counts.MissedCalls != 1 {
		t.Errorf("Counts.MissedCalls = %v, want 1", n.Counts.MissedCalls)
	}

	if string(n.Type) != `"m.room.message"` {
		t.Errorf("Type = %s", n.Type)
	}
}

func TestParseOptionalFieldsAbsent(t *testing.T) {
	n, err := Parse([]byte(`{"devices": [{"app_id": "a", "pushkey": "k"}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if n.EventID != nil {
		t.Errorf("EventID = %s, want nil for absent field", n.EventID)
	}
	if n.Counts.Unread != nil {
		t.Errorf("Counts.Unread = %v, want nil for absent field", n.Counts.Unread)
	}
	if n.Devices[0].PushkeyTS != 0 {
		t.Errorf("PushkeyTS = %d, want 0 default", n.Devices[0].PushkeyTS)
	}
	if n.Devices[0].Tweaks.Sound != nil {
		t.Errorf("Tweaks.Sound = %s, want nil for absent field", n.Devices[0].Tweaks.Sound)
	}
}

func TestParseExplicitNullPreserved(t *testing.T) {
	n, err := Parse([]byte(`{"room_name": null, "devices": [{"app_id": "a", "pushkey": "k"}]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// An explicit null is kept distinct from an absent field.
	if string(n.RoomName) != "null" {
		t.Errorf("RoomName = %q, want null literal", string(n.RoomName))
	}
	if n.RoomAlias != nil {
		t.Errorf("RoomAlias = %s, want nil", n.RoomAlias)
	}
}

// ─── Validation Tests ──────────────────────────────────────────────

func TestParseValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing devices key",
			body:    `{"room_name": "x"}`,
			wantMsg: "Expected list in 'devices' key",
		},
		{
			name:    "devices not a list",
			body:    `{"devices": {"app_id": "a"}}`,
			wantMsg: "Expected list in 'devices' key",
		},
		{
			name:    "devices null",
			body:    `{"devices": null}`,
			wantMsg: "Expected list in 'devices' key",
		},
		{
			name:    "empty devices",
			body:    `{"devices": []}`,
			wantMsg: "No devices in notification",
		},
		{
			name:    "device without app_id",
			body:    `{"devices": [{"pushkey": "k"}]}`,
			wantMsg: "Device with no app_id",
		},
		{
			name:    "device without pushkey",
			body:    `{"devices": [{"app_id": "a"}]}`,
			wantMsg: "Device with no pushkey",
		},
		{
			name:    "second device invalid",
			body:    `{"devices": [{"app_id": "a", "pushkey": "k"}, {"app_id": "b"}]}`,
			wantMsg: "Device with no pushkey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			if err == nil {
				t.Fatalf("Parse() = nil error, want %q", tt.wantMsg)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *ValidationError (%v)", err, err)
			}
			if verr.Msg != tt.wantMsg {
				t.Errorf("Msg = %q, want %q", verr.Msg, tt.wantMsg)
			}
		})
	}
}

// ─── Round-trip Tests ──────────────────────────────────────────────

func TestMarshalForwardsRawFields(t *testing.T) {
	n, err := Parse([]byte(validBody))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	content, ok := decoded["content"].(map[string]any)
	if !ok {
		t.Fatalf("content not forwarded: %v", decoded["content"])
	}
	if content["msgtype"] != "m.text" {
		t.Errorf("content.msgtype = %v, want m.text", content["msgtype"])
	}
}
