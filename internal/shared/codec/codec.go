// Package codec is the JSON codec used on every wire boundary of the backend.
// It is backed by sonic configured for encoding/json compatibility.
package codec

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

var api = sonic.ConfigStd

// Marshal encodes v as JSON
func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

// Unmarshal decodes JSON data into v
func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

// DecodeIntent decodes a wire intent. A missing kind decodes as "none".
func DecodeIntent(data []byte) (types.Intent, error) {
	var in types.Intent
	if err := api.Unmarshal(data, &in); err != nil {
		return types.Intent{}, fmt.Errorf("decode intent: %w", err)
	}
	if in.Kind == "" {
		in.Kind = types.IntentNone
	}
	return in, nil
}
