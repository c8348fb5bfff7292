package diag

// Severity defines the importance of a diagnostic.
// Only SevError is emitted today; renderers and the summary handle all three.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// IsError reports whether s fails a check run.
func (s Severity) IsError() bool { return s >= SevError }
