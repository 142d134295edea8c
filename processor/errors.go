package processor

// Error is a structured failure surfaced by an adapter, either built locally
// (validation, normalization) or reshaped from a vendor error envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + " (" + e.Details + ")"
	}
	return e.Message
}

// ErrNotImplemented is returned by every operation an adapter does not
// override. It signals an integration mistake, not a runtime condition.
var ErrNotImplemented = &Error{
	Code:    "NOT_IMPLEMENTED",
	Message: "operation is not implemented for this processor",
}
