package cellwidth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuneWidth(t *testing.T) {
	testCases := []struct {
		name     string
		r        rune
		expected int
	}{
		{name: "ascii letter", r: 'a', expected: 1},
		{name: "newline", r: '\n', expected: 0},
		{name: "east asian wide", r: '日', expected: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, RuneWidth(tc.r))
		})
	}
}

func TestStringWidth(t *testing.T) {
	testCases := []struct {
		name     string
		s        string
		expected int
	}{
		{name: "empty", s: "", expected: 0},
		{name: "ascii", s: "abc", expected: 3},
		{name: "mixed width", s: "a日b", expected: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StringWidth(tc.s))
		})
	}
}
