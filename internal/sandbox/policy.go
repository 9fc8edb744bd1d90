package sandbox

import "strings"

// forbiddenCapabilities is scanned in order; the first hit is reported.
var forbiddenCapabilities = [...]string{
	"process",    // runtime handle
	"require",    // module loader
	"__dirname",  // path globals
	"__filename", //
	"global",     // global object alias, also matches globalThis
	"Buffer",     // binary buffer constructor
	"eval",       // dynamic evaluation
}

// ForbiddenCapabilities returns a copy of the forbidden name list
func ForbiddenCapabilities() []string {
	names := make([]string, len(forbiddenCapabilities))
	copy(names, forbiddenCapabilities[:])
	return names
}

// findForbidden returns the first forbidden name contained in code
func findForbidden(code string) (string, bool) {
	for _, name := range forbiddenCapabilities {
		if strings.Contains(code, name) {
			return name, true
		}
	}
	return "", false
}

// lockedPolicy is the only policy BuildContext hands out
func lockedPolicy() Policy {
	return Policy{CaptureConsole: true}
}
