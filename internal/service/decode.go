package service

import (
	"encoding/json"
	"math"

	"github.com/GriffinCanCode/jsexec/internal/sandbox"
)

// DecodeRequest reads execute_js arguments. Absent or null optional fields
// stay nil so BuildContext applies defaults. Numbers must be integral.
func DecodeRequest(args map[string]any) (sandbox.Request, error) {
	var req sandbox.Request

	raw, ok := args["code"]
	if !ok || raw == nil {
		return req, &sandbox.ValidationError{Reason: sandbox.ReasonMissingCode, Field: "code", Message: "code is required"}
	}
	code, ok := raw.(string)
	if !ok {
		return req, malformed("code", "must be a string")
	}
	req.Code = code

	timeout, err := integer(args, "timeout", math.MinInt32, math.MaxInt32)
	if err != nil {
		return req, err
	}
	if timeout != nil {
		v := int(*timeout)
		req.TimeoutMs = &v
	}

	memory, err := integer(args, "memory", math.MinInt64/2, math.MaxInt64/2)
	if err != nil {
		return req, err
	}
	req.MemoryBytes = memory

	return req, nil
}

// integer reads an optional integral number. Values outside [lo, hi] are
// pinned to the nearest end, which is still out of range for BuildContext
// and so rejected with the same message as any other out-of-range value.
func integer(args map[string]any, field string, lo, hi int64) (*int64, error) {
	raw, ok := args[field]
	if !ok || raw == nil {
		return nil, nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil, malformed(field, "must be a number")
		}
		f = parsed
	default:
		return nil, malformed(field, "must be a number")
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return nil, malformed(field, "must be an integer")
	}

	var n int64
	switch {
	case f < float64(lo):
		n = lo
	case f > float64(hi):
		n = hi
	default:
		n = int64(f)
	}
	return &n, nil
}

func malformed(field, message string) *sandbox.ValidationError {
	return &sandbox.ValidationError{Reason: sandbox.ReasonMalformed, Field: field, Message: message}
}
