package types

// SuccessEnvelope is the wire shape for successful responses.
type SuccessEnvelope struct {
	Status bool `json:"status"`
	Doc    any  `json:"doc"`
}

// ErrorEnvelope is the wire shape for failed responses.
type ErrorEnvelope struct {
	Status  bool   `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
