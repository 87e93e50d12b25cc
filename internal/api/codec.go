// Package api defines the Connect RPC surface: procedure names, JSON
// messages, and handler/client constructors for the trip and ledger services.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Codec serializes messages as JSON. Well-known protobuf types such as
// emptypb.Empty go through protojson; plain structs use encoding/json.
type Codec struct{}

var _ connect.Codec = Codec{}

// Name matches the "application/json" content type Connect uses for unary calls.
func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	if m, ok := msg.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if m, ok := msg.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
