package types

// IntentKind tags the desired state change carried by an Intent
type IntentKind string

const (
	IntentOpenApplication  IntentKind = "open_application"
	IntentSearchFileSystem IntentKind = "search_virtual_file_system"
	IntentNone             IntentKind = "none"
)

// Intent is the wire shape produced by the external translator.
// Payload may be nil; unknown kinds are valid and treated as no-ops.
type Intent struct {
	Kind    IntentKind             `json:"kind"`
	Payload map[string]interface{} `json:"payload"`
}

// NoIntent returns the intent that requests no desktop change
func NoIntent() Intent {
	return Intent{Kind: IntentNone}
}
