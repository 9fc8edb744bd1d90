package sandbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsFunctionBodies(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"top-level return", "return 1+1;"},
		{"expression only", "1 + 1"},
		{"top-level await", "const v = await Promise.resolve(3); return v;"},
		{"arrow functions", "const sq = x => x * x; return [1, 2, 3].map(sq);"},
		{"classes", "class A { get v() { return 1 } } return new A().v;"},
		{"trailing line comment", "return 1 // done"},
		{"console", "console.log('a'); console.log('b');"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate(tt.code))
		})
	}
}

func TestValidateRejectsMissingCode(t *testing.T) {
	for _, code := range []string{"", "   ", "\n\t"} {
		err := Validate(code)
		require.Error(t, err)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, ReasonMissingCode, verr.Reason)
	}
}

func TestValidateRejectsSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"unterminated call", "return foo("},
		{"bad token", "let = ;"},
		{"unterminated string", "return 'abc"},
		{"closes wrapper early", "}\nfunction other() {"},
		{"closes wrapper with trailing statement", "return 1 }\nvar x = 2\n{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, ReasonSyntax, verr.Reason)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidateRejectsForbiddenNames(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		pattern string
	}{
		{"process handle", "return process.pid", "process"},
		{"module loader", "const fs = require('fs')", "require"},
		{"dirname", "return __dirname", "__dirname"},
		{"filename", "return __filename", "__filename"},
		{"global alias", "return global", "global"},
		{"globalThis", "return globalThis.x", "global"},
		{"buffer", "return Buffer.from('x')", "Buffer"},
		{"eval", "return eval('1')", "eval"},
		{"inside string literal", "return 'process'", "process"},
		{"inside comment", "// require is off limits\nreturn 1", "require"},
		{"substring of identifier", "const evaluate = 1; return evaluate", "eval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.code)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, ReasonForbiddenPattern, verr.Reason)
			assert.Equal(t, tt.pattern, verr.Pattern)
		})
	}
}

func TestValidateSyntaxCheckedBeforeForbiddenNames(t *testing.T) {
	err := Validate("require(")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, ReasonSyntax, verr.Reason)
}

func TestForbiddenCapabilitiesIsACopy(t *testing.T) {
	names := ForbiddenCapabilities()
	require.Len(t, names, 7)

	names[0] = "mutated"
	assert.Equal(t, "process", ForbiddenCapabilities()[0])
}

func TestWrapBody(t *testing.T) {
	assert.Equal(t, "async function "+EntryPoint+"() {\"use strict\";\nreturn 1\n}", WrapBody("return 1"))
}
