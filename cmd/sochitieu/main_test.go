package main

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := parseDate("2025-05-02")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)))

	parsed, err = parseDate("2025-05-02T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 8, parsed.Hour())

	_, err = parseDate("02/05/2025")
	assert.Error(t, err)

	today, err := parseDate("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, today.Location())
	assert.Zero(t, today.Hour())
}

func TestParseTags(t *testing.T) {
	assert.Nil(t, parseTags(""))
	assert.Nil(t, parseTags("  ,  ,"))
	assert.Equal(t, []string{"family", "monthly"}, parseTags("family, monthly"))
	assert.Equal(t, []string{"one"}, parseTags("one,,"))
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":    true,
		"Y\n":    true,
		"yes\n":  true,
		"true\n": true,
		"n\n":    false,
		"no\n":   false,
		"\n":     false,
		"huh\n":  false,
	}
	for input, want := range cases {
		got := confirm(bufio.NewReader(strings.NewReader(input)), "sure?")
		assert.Equal(t, want, got, "input %q", input)
	}
}
