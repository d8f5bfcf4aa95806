package extract

import "fmt"

// CompletionError reports a failed call to the LLM backend.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("error with %s completion: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// ParseError reports an LLM response that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extract: response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError reports valid JSON that matches none of the accepted shapes.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "extract: unexpected data format from API: " + e.Reason
}
