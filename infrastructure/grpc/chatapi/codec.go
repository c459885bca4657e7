// Package chatapi holds the wire contract of the chat gRPC service: message
// types, the service descriptor and the JSON codec they travel with.
package chatapi

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const CodecName = "json"

// Codec marshals the chatapi messages as JSON on the gRPC wire.
type Codec struct{}

func init() {
	encoding.RegisterCodec(Codec{})
}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return CodecName
}
