package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// MessageResponse is the body for writes that confirm instead of echoing the record.
type MessageResponse struct {
	Message string `json:"message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
