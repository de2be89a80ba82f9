package mqtt

import (
	"errors"
	"strings"
	"testing"
)

// ─── Option Building Tests ─────────────────────────────────────────

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(Config{
		Host:     "broker.example.com",
		Port:     1883,
		ClientID: "sygnal-com.example.iot",
		Username: "user",
		Password: "pass",
		QoS:      1,
	})

	servers := opts.Servers
	if len(servers) != 1 {
		t.Fatalf("len(Servers) = %d, want 1", len(servers))
	}
	if got := servers[0].String(); got != "tcp://broker.example.com:1883" {
		t.Errorf("broker url = %q, want tcp://broker.example.com:1883", got)
	}
	if opts.ClientID != "sygnal-com.example.iot" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "user" {
		t.Errorf("Username = %q", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect should be enabled")
	}
	if !opts.CleanSession {
		t.Error("CleanSession should be enabled")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	opts := buildClientOptions(Config{
		Host:     "broker.example.com",
		Port:     8883,
		TLS:      true,
		ClientID: "sygnal-test",
	})

	if got := opts.Servers[0].String(); !strings.HasPrefix(got, "ssl://") {
		t.Errorf("broker url = %q, want ssl:// scheme", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig should be set")
	}
	if opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Errorf("MinVersion = %d, want %d", opts.TLSConfig.MinVersion, tlsMinVersion)
	}
}

// ─── Connection Callback Tests ─────────────────────────────────────

func TestConnectionCallbacks(t *testing.T) {
	c := &Client{}

	var connects int
	var lostErr error
	c.SetOnConnect(func() { connects++ })
	c.SetOnDisconnect(func(err error) { lostErr = err })

	c.handleConnect()
	if connects != 1 {
		t.Errorf("connect callback calls = %d, want 1", connects)
	}
	if !c.connected {
		t.Error("connected should be true after handleConnect")
	}

	wantErr := errors.New("broker went away")
	c.handleDisconnect(wantErr)
	if lostErr != wantErr {
		t.Errorf("disconnect callback error = %v, want %v", lostErr, wantErr)
	}
	if c.connected {
		t.Error("connected should be false after handleDisconnect")
	}
}

func TestCallbacksOptional(t *testing.T) {
	// Handlers fire before any callback is registered during the initial
	// async connect; they must tolerate nil callbacks.
	c := &Client{}
	c.handleConnect()
	c.handleDisconnect(errors.New("lost"))
}

// ─── Publish Validation Tests ──────────────────────────────────────

func TestPublishValidation(t *testing.T) {
	// Validation happens before any broker interaction, so a zero-value
	// client with a disconnected state is enough.
	c := &Client{}

	if err := c.Publish("", []byte("x"), 1, false); err != ErrInvalidTopic {
		t.Errorf("empty topic error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("sygnal/push/a/k", []byte("x"), 3, false); err != ErrInvalidQoS {
		t.Errorf("qos 3 error = %v, want ErrInvalidQoS", err)
	}

	huge := make([]byte, maxPayloadSize+1)
	if err := c.Publish("sygnal/push/a/k", huge, 1, false); err == nil {
		t.Error("oversized payload should be rejected")
	}
}
