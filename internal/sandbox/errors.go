package sandbox

import "fmt"

// Reason classifies a rejected request
type Reason string

const (
	ReasonMissingCode      Reason = "missing-code"
	ReasonSyntax           Reason = "syntax"
	ReasonForbiddenPattern Reason = "forbidden-pattern"
	ReasonOutOfRange       Reason = "out-of-range"
	ReasonMalformed        Reason = "malformed"
)

// ValidationError is returned for requests rejected before execution
type ValidationError struct {
	Reason  Reason
	Field   string // set for ReasonOutOfRange and ReasonMalformed
	Pattern string // set for ReasonForbiddenPattern
	Message string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonSyntax:
		return "syntax error: " + e.Message
	case ReasonForbiddenPattern:
		return "forbidden pattern detected: " + e.Pattern
	case ReasonOutOfRange, ReasonMalformed:
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

// FailureKind classifies an execution that started but did not succeed
type FailureKind string

const (
	FailureCompile  FailureKind = "compile"
	FailureRuntime  FailureKind = "runtime"
	FailureTimeout  FailureKind = "timeout"
	FailureMemory   FailureKind = "memory"
	FailureCanceled FailureKind = "canceled"
	FailureEngine   FailureKind = "engine"
)

// Failure is the error half of an Outcome
type Failure struct {
	Kind    FailureKind
	Message string
}

// NewFailure creates a failure with a formatted message
func NewFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return string(f.Kind) + ": " + f.Message
}
