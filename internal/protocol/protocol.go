// Package protocol defines the JSON messages exchanged between the bot and
// the game server over a websocket connection. Every frame carries a type
// tag and protocol version; DecodeBase extracts those for dispatch before
// the full message is unmarshalled.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol revision this client speaks.
const Version = "1"

// Frame type tags.
const (
	TypeHello      = "hello"
	TypeWelcome    = "welcome"
	TypeChunk      = "chunk"
	TypePosition   = "position"
	TypeChat       = "chat"
	TypeHealth     = "health"
	TypeDeath      = "death"
	TypeDisconnect = "disconnect"
	TypeControl    = "control"
	TypeMove       = "move"
)

// Base is the envelope common to every frame.
type Base struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

// DecodeBase parses just the envelope of a raw frame.
func DecodeBase(raw []byte) (Base, error) {
	var b Base
	if err := json.Unmarshal(raw, &b); err != nil {
		return Base{}, fmt.Errorf("malformed frame: %w", err)
	}
	if b.Type == "" {
		return Base{}, fmt.Errorf("frame missing type tag")
	}
	return b, nil
}
