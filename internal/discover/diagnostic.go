package discover

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates part of a root could not be scanned.
	SeverityError Severity = "error"
)

// Diagnostic codes.
const (
	CodeRootMissing      = "root_missing"
	CodeRootNotDirectory = "root_not_directory"
	CodeDirUnreadable    = "dir_unreadable"
	CodeEntryUnreadable  = "entry_unreadable"
	CodeIgnoreUnreadable = "ignore_unreadable"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic describes a problem met while scanning a root. Diagnostics
	// never abort a scan; they are returned next to the partial result.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier (e.g., "dir_unreadable").
		Code    string
		Message string
		Path    string
		// Cause is the underlying error, if any.
		Cause error
	}
)

func (d Diagnostic) String() string {
	return string(d.Severity) + ": " + d.Message
}
