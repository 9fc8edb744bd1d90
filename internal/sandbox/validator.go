package sandbox

import (
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

// EntryPoint names the async function that wraps submitted code. The code is
// a strict-mode function body, so top-level return and await are allowed and
// this is undefined rather than the global object.
const EntryPoint = "__jsexec_main"

const (
	bodyPrefix = "async function " + EntryPoint + "() {\"use strict\";\n"
	bodySuffix = "\n}"
)

// WrapBody returns the program engines compile for code
func WrapBody(code string) string {
	return bodyPrefix + code + bodySuffix
}

// Validate checks that code is a well-formed function body that names no
// forbidden capability. It has no side effects.
func Validate(code string) error {
	if strings.TrimSpace(code) == "" {
		return &ValidationError{Reason: ReasonMissingCode, Field: "code", Message: "code is required"}
	}

	program, err := parser.ParseFile(nil, "", WrapBody(code), 0)
	if err != nil {
		return &ValidationError{Reason: ReasonSyntax, Message: err.Error()}
	}
	if !isSingleBody(program) {
		// Unbalanced braces that close the wrapper early parse as extra
		// top-level statements.
		return &ValidationError{Reason: ReasonSyntax, Message: "code must be a single function body"}
	}

	if name, found := findForbidden(code); found {
		return &ValidationError{
			Reason:  ReasonForbiddenPattern,
			Pattern: name,
			Message: "forbidden pattern detected: " + name,
		}
	}

	return nil
}

func isSingleBody(program *ast.Program) bool {
	if len(program.Body) != 1 {
		return false
	}
	_, ok := program.Body[0].(*ast.FunctionDeclaration)
	return ok
}
