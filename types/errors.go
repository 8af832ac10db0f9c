package types

import "fmt"

// TopologyError reports centerline or segment graph input that violates a structural
// invariant the network extraction depends on. It is fatal for the run.
type TopologyError struct {
	Invariant string
	Detail    string
}

func NewTopologyError(invariant, format string, args ...any) *TopologyError {
	return &TopologyError{
		Invariant: invariant,
		Detail:    fmt.Sprintf(format, args...),
	}
}

func (e *TopologyError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("topology error: %s", e.Invariant)
	}
	return fmt.Sprintf("topology error: %s: %s", e.Invariant, e.Detail)
}

// ConfigurationError reports caller supplied parameters that are missing or
// inconsistent with the discovered topology.
type ConfigurationError struct {
	Field  string
	Detail string
}

func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Field:  field,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Detail)
}
