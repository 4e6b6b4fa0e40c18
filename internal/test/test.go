// Package test contains assertions shared by package tests.
package test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ava12/svgrammar"
)

// ErrorCode asserts that e is (or wraps) *svgrammar.Error with expected code.
func ErrorCode(t *testing.T, expected int, e error, msgAndArgs ...any) bool {
	t.Helper()
	var se *svgrammar.Error
	if !errors.As(e, &se) {
		return assert.Fail(t, fmt.Sprintf("expecting *svgrammar.Error, got %v", e), msgAndArgs...)
	}
	return assert.Equal(t, expected, se.Code, msgAndArgs...)
}

// ErrorPos asserts that e is (or wraps) *svgrammar.Error located at line and col.
func ErrorPos(t *testing.T, line, col int, e error, msgAndArgs ...any) bool {
	t.Helper()
	var se *svgrammar.Error
	if !errors.As(e, &se) {
		return assert.Fail(t, fmt.Sprintf("expecting *svgrammar.Error, got %v", e), msgAndArgs...)
	}
	return assert.Equal(t, [2]int{line, col}, [2]int{se.Line, se.Col}, msgAndArgs...)
}
