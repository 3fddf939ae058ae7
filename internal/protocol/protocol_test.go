package protocol

import "testing"

func TestDecodeBase(t *testing.T) {
	b, err := DecodeBase([]byte(`{"type":"chat","protocol_version":"1","message":"hi"}`))
	if err != nil {
		t.Fatalf("DecodeBase failed: %v", err)
	}
	if b.Type != TypeChat {
		t.Errorf("type = %q, want %q", b.Type, TypeChat)
	}
	if b.ProtocolVersion != Version {
		t.Errorf("protocol_version = %q, want %q", b.ProtocolVersion, Version)
	}
}

func TestDecodeBaseMissingType(t *testing.T) {
	if _, err := DecodeBase([]byte(`{"message":"hi"}`)); err == nil {
		t.Error("frame without a type tag must be rejected")
	}
}

func TestDecodeBaseMalformed(t *testing.T) {
	if _, err := DecodeBase([]byte(`{"type":`)); err == nil {
		t.Error("malformed JSON must be rejected")
	}
}
