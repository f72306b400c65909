// Package api defines the storefront's wire messages and the Connect
// handlers and clients of its five services.
//
// Messages are plain Go structs encoded as JSON, so any HTTP client can call
// a procedure with a POST of Content-Type application/json. Read-only
// procedures also accept GET requests.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codec serializes messages with encoding/json. It replaces Connect's
// default "json" codec, which only handles protobuf messages.
type codec struct{}

var _ connect.Codec = codec{}

func (codec) Name() string {
	return "json"
}

func (codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// MarshalStable is used for GET requests. encoding/json sorts map keys, so
// the output is already deterministic.
func (c codec) MarshalStable(msg any) ([]byte, error) {
	return c.Marshal(msg)
}

func (codec) IsBinary() bool {
	return false
}

// Unmarshal accepts an empty body as an empty message.
func (codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", msg, err)
	}
	return nil
}
