package sandbox

import "sync"

// ConsoleBuffer collects the console lines of one execution
type ConsoleBuffer struct {
	mu     sync.Mutex
	lines  []string
	sealed bool
}

// NewConsoleBuffer creates an empty buffer
func NewConsoleBuffer() *ConsoleBuffer {
	return &ConsoleBuffer{lines: []string{}}
}

// Append adds a line. Appends after Seal are dropped.
func (b *ConsoleBuffer) Append(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sealed {
		return
	}
	b.lines = append(b.lines, line)
}

// Seal stops further appends and returns the collected lines
func (b *ConsoleBuffer) Seal() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sealed = true
	return append([]string{}, b.lines...)
}

// Len returns the number of lines collected so far
func (b *ConsoleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.lines)
}
