package api

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec encodes plain Go structs as JSON. It replaces Connect's
// protojson codec, which only accepts protobuf messages.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// WithJSON configures a handler or client to speak JSON over plain structs.
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
