package models

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateRawMessage checks the envelope fields the pipeline depends on.
// Author is optional, some ingestion gateways strip it.
func ValidateRawMessage(msg *RawMessage) error {
	if msg == nil {
		return &ValidationError{
			Field:   "message",
			Message: "raw message cannot be nil",
		}
	}

	if msg.MessageID == "" {
		return &ValidationError{
			Field:   "message_id",
			Message: "message id is required",
		}
	}

	if msg.Channel == "" {
		return &ValidationError{
			Field:   "channel",
			Message: "channel is required",
		}
	}

	if msg.Text == "" {
		return &ValidationError{
			Field:   "text",
			Message: "text is required",
		}
	}

	if msg.Date.IsZero() {
		return &ValidationError{
			Field:   "date",
			Message: "date is required",
		}
	}

	return nil
}
