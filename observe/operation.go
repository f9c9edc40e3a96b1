package observe

// OperationMeta describes a unit of work for telemetry purposes.
type OperationMeta struct {
	Component string // Owning package, e.g. "convert" or "snippet"
	Name      string // Operation name, e.g. "format" (required)
	Mode      string // Detected input mode (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: <component>.<name> or <name>
func (m OperationMeta) SpanName() string {
	if m.Component != "" {
		return m.Component + "." + m.Name
	}
	return m.Name
}

// Validate reports ErrMissingOperationName when Name is empty.
func (m OperationMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingOperationName
	}
	return nil
}

// Outcome reports how an operation completed.
type Outcome struct {
	// Mode is the mode reported to the caller, which may differ from the
	// input mode (convert flips it).
	Mode string

	// CacheHit is true when the result was served from the cache.
	CacheHit bool
}
