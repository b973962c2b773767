package plan

import _ "embed"

// planSchema is the JSON schema for incoming analysis-plan documents.
// It mirrors the structure the planner is contracted to emit.
//
//go:embed schema.json
var planSchema []byte
