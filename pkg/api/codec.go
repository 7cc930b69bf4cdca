// Package api defines the splitledger.v1 wire messages and the JSON codec
// used to carry them over Connect.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name. It replaces Connect's protobuf-only JSON codec,
// so both application/json and application/connect+json content types use it.
const CodecName = "json"

// JSONCodec marshals plain Go structs with encoding/json.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", msg, err)
	}
	return nil
}

// WithJSON registers JSONCodec on a Connect handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
