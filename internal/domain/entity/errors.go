package entity

import "fmt"

// ExternalCallError marks a failure of a remote collaborator (model API,
// search API). It ends the current run instead of being fed back to the model.
type ExternalCallError struct {
	Service string
	Err     error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }
