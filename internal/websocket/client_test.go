package websocket

import (
	"encoding/json"
	"testing"
)

func TestSendJSON(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), ID: "ws_abc"}

	if err := c.SendJSON(map[string]interface{}{"type": "connected", "clientId": c.ID}); err != nil {
		t.Fatalf("SendJSON failed: %v", err)
	}

	var frame map[string]string
	if err := json.Unmarshal(<-c.send, &frame); err != nil {
		t.Fatalf("Frame is not valid JSON: %v", err)
	}
	if frame["type"] != "connected" || frame["clientId"] != "ws_abc" {
		t.Errorf("Unexpected frame: %v", frame)
	}
}

func TestSendJSONUnserializable(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}
	if err := c.SendJSON(make(chan int)); err == nil {
		t.Error("Expected a marshal error for an unserializable value")
	}
}
