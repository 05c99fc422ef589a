package validator

import "strings"

// ValidationError carries one message per violated constraint
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ",")
}

func (e *ValidationError) add(msg string) {
	e.Messages = append(e.Messages, msg)
}
