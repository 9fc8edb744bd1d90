package sandbox

import (
	"fmt"
	"time"
)

// BuildContext resolves the requested bounds into a Config. Absent values
// take the defaults; values outside the bounds are rejected, never clamped.
func BuildContext(timeoutMs *int, memoryBytes *int64) (Config, error) {
	timeout := DefaultTimeoutMs
	if timeoutMs != nil {
		if *timeoutMs < MinTimeoutMs || *timeoutMs > MaxTimeoutMs {
			return Config{}, outOfRange("timeout", int64(MinTimeoutMs), int64(MaxTimeoutMs))
		}
		timeout = *timeoutMs
	}

	memory := DefaultMemoryBytes
	if memoryBytes != nil {
		if *memoryBytes < MinMemoryBytes || *memoryBytes > MaxMemoryBytes {
			return Config{}, outOfRange("memory", MinMemoryBytes, MaxMemoryBytes)
		}
		memory = *memoryBytes
	}

	return Config{
		Timeout:     time.Duration(timeout) * time.Millisecond,
		MemoryBytes: memory,
		Policy:      lockedPolicy(),
	}, nil
}

func outOfRange(field string, min, max int64) *ValidationError {
	return &ValidationError{
		Reason:  ReasonOutOfRange,
		Field:   field,
		Message: fmt.Sprintf("must be between %d and %d", min, max),
	}
}
