package api

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is the connect.Codec used by every sharify.v1 service.
type JSONCodec struct{}

// Name returns the codec name, matching the application/json content type.
func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
