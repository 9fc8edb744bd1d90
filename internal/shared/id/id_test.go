package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{ExecutionPrefix, RequestPrefix} {
		id := gen.GenerateWithPrefix(prefix)

		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("ID should start with '%s_', got: %s", prefix, id)
		}

		parts := strings.Split(id, "_")
		if len(parts) != 2 {
			t.Fatalf("Prefixed ID should have format 'prefix_ulid', got: %s", id)
		}
		if len(parts[1]) != 26 {
			t.Errorf("ULID should be 26 characters, got %d", len(parts[1]))
		}
	}
}

func TestTypedIDs(t *testing.T) {
	if exec := NewExecutionID(); !strings.HasPrefix(exec.String(), "exec_") {
		t.Errorf("ExecutionID should start with 'exec_', got: %s", exec)
	}
	if req := NewRequestID(); !strings.HasPrefix(req.String(), "req_") {
		t.Errorf("RequestID should start with 'req_', got: %s", req)
	}
}

func TestIsValid(t *testing.T) {
	gen := NewGenerator()

	valid := []string{
		gen.GenerateString(),
		gen.GenerateWithPrefix(ExecutionPrefix),
	}
	for _, id := range valid {
		if !IsValid(id) {
			t.Errorf("ID should be valid: %s", id)
		}
	}

	invalid := []string{
		"",
		"invalid",
		"exec_",
		"zzzzzzzzzzzzzzzzzzzzzzzzzzz",
	}
	for _, id := range invalid {
		if IsValid(id) {
			t.Errorf("ID should be invalid: %s", id)
		}
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now()
	id := NewExecutionID()
	after := time.Now()

	ts, err := Timestamp(id.String())
	if err != nil {
		t.Fatalf("Failed to extract timestamp: %v", err)
	}

	if ts.UnixMilli() < before.UnixMilli() || ts.UnixMilli() > after.UnixMilli() {
		t.Errorf("Timestamp should be between %d and %d ms, got %d ms",
			before.UnixMilli(), after.UnixMilli(), ts.UnixMilli())
	}
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	gen := NewGenerator()

	prev := gen.GenerateString()
	for i := 0; i < 1000; i++ {
		next := gen.GenerateString()
		if next <= prev {
			t.Fatalf("IDs should be strictly increasing: %s <= %s", next, prev)
		}
		prev = next
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()

	const goroutines = 50
	const perGoroutine = 100

	var wg sync.WaitGroup
	ids := make(chan string, goroutines*perGoroutine)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ids <- gen.GenerateString()
			}
		}()
	}

	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Errorf("Duplicate ID found in concurrent generation: %s", id)
		}
		seen[id] = true
	}

	if len(seen) != goroutines*perGoroutine {
		t.Errorf("Expected %d unique IDs, got %d", goroutines*perGoroutine, len(seen))
	}
}

func TestDefaultGenerator(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() should return the same instance")
	}
}

func BenchmarkGenerateWithPrefix(b *testing.B) {
	gen := NewGenerator()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen.GenerateWithPrefix(ExecutionPrefix)
	}
}
