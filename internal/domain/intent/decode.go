package intent

import (
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// DecodeFunc builds an intent variant from a wire payload.
// The payload may be nil.
type DecodeFunc func(payload map[string]interface{}) (Intent, error)

func defaultDecoders() map[types.IntentKind]DecodeFunc {
	return map[types.IntentKind]DecodeFunc{
		types.IntentOpenApplication:  decodeOpenApplication,
		types.IntentSearchFileSystem: decodeSearchFileSystem,
	}
}

// Decode decodes a wire intent using the built-in kinds only
func Decode(raw types.Intent) (Intent, error) {
	return decodeWith(defaultDecoders(), raw)
}

func decodeWith(decoders map[types.IntentKind]DecodeFunc, raw types.Intent) (Intent, error) {
	kind := raw.Kind
	if kind == "" {
		kind = types.IntentNone
	}
	decode, ok := decoders[kind]
	if !ok || decode == nil {
		return NoAction{Requested: kind}, nil
	}
	in, err := decode(raw.Payload)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return NoAction{Requested: kind}, nil
	}
	return in, nil
}

func decodeOpenApplication(payload map[string]interface{}) (Intent, error) {
	appID, err := RequireString(types.IntentOpenApplication, payload, "app_id")
	if err != nil {
		return nil, err
	}
	return OpenApplication{AppID: appID}, nil
}

func decodeSearchFileSystem(payload map[string]interface{}) (Intent, error) {
	query, err := RequireString(types.IntentSearchFileSystem, payload, "query")
	if err != nil {
		return nil, err
	}
	return SearchFileSystem{Query: query}, nil
}

// RequireString extracts a required, non-empty string field from a payload
func RequireString(kind types.IntentKind, payload map[string]interface{}, field string) (string, error) {
	value, ok := payload[field]
	if !ok || value == nil {
		return "", &MalformedIntentError{Kind: kind, Field: field, Reason: "is required"}
	}
	s, ok := value.(string)
	if !ok {
		return "", &MalformedIntentError{Kind: kind, Field: field, Reason: "must be a string"}
	}
	if s == "" {
		return "", &MalformedIntentError{Kind: kind, Field: field, Reason: "must not be empty"}
	}
	return s, nil
}
