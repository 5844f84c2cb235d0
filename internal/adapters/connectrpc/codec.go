// Package connectrpc carries the remote store's operations over connect unary RPCs
// with a JSON codec over plain Go structs.
package connectrpc

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// ServiceName is the fully-qualified name of the remote store service.
const ServiceName = "tripmate.v1.TripMateService"

// Procedure returns the connect procedure path for method.
func Procedure(method string) string {
	return "/" + ServiceName + "/" + method
}

// jsonCodec replaces connect's protobuf JSON codec so requests and responses can be
// ordinary structs.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
