package ir

import "fmt"

// Severity ranks a validation issue. Info < Warning < Error.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ParseSeverity parses the lowercase severity name.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (want info, warning, or error)", s)
	}
}

// MarshalText implements encoding.TextMarshaler; used by both JSON and YAML.
func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ValidationIssue is a non-fatal finding recorded on the normalized program.
// Element is a dotted path such as "Initialize" or "Initialize.mint".
type ValidationIssue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Element  string   `json:"element,omitempty" yaml:"element,omitempty"`
}

func (v ValidationIssue) String() string {
	if v.Element == "" {
		return fmt.Sprintf("%s: %s", v.Severity, v.Message)
	}
	return fmt.Sprintf("%s: %s [%s]", v.Severity, v.Message, v.Element)
}

// InfoIssue returns an Info-level issue.
func InfoIssue(message, element string) ValidationIssue {
	return ValidationIssue{Severity: SeverityInfo, Message: message, Element: element}
}

// WarningIssue returns a Warning-level issue.
func WarningIssue(message, element string) ValidationIssue {
	return ValidationIssue{Severity: SeverityWarning, Message: message, Element: element}
}

// ErrorIssue returns an Error-level issue.
func ErrorIssue(message, element string) ValidationIssue {
	return ValidationIssue{Severity: SeverityError, Message: message, Element: element}
}

// IssueCounts tallies issues per severity.
type IssueCounts struct {
	Info    int `json:"info" yaml:"info"`
	Warning int `json:"warning" yaml:"warning"`
	Error   int `json:"error" yaml:"error"`
}

// CountIssues tallies issues per severity.
func CountIssues(issues []ValidationIssue) IssueCounts {
	var c IssueCounts
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityInfo:
			c.Info++
		case SeverityWarning:
			c.Warning++
		case SeverityError:
			c.Error++
		}
	}
	return c
}

// AtOrAbove reports whether any issue has severity >= min.
func AtOrAbove(issues []ValidationIssue, min Severity) bool {
	for _, issue := range issues {
		if issue.Severity >= min {
			return true
		}
	}
	return false
}
