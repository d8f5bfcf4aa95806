package pipeline

import "fmt"

// ConfigurationError reports a missing credential or invalid input detected
// before any network call.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}
