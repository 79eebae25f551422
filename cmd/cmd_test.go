package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyplan/internal/syllabus"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		in   []string
		want []int
	}{
		{[]string{"1", "3", "5"}, []int{1, 3, 5}},
		{[]string{"mon,wed", "Friday"}, []int{1, 3, 5}},
		{[]string{"sun", " 6 "}, []int{0, 6}},
		{[]string{","}, nil},
	}
	for _, tt := range tests {
		got, err := parseWeekdays(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseWeekdays([]string{"someday"})
	assert.Error(t, err)
}

func TestFormatWeekdays(t *testing.T) {
	assert.Equal(t, "Mon Wed", formatWeekdays([]time.Weekday{time.Monday, time.Wednesday}))
	assert.Equal(t, "(none)", formatWeekdays(nil))
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	zero, err := parseDate(" ")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = parseDate("08/01/2024")
	assert.Error(t, err)
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestSubjectCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	common := []string{"--db", db, "--tenant", "cli_test", "--env-file", filepath.Join(t.TempDir(), "none.env")}

	out := run(t, append([]string{"subject", "add"}, append(common, "--weight", "7", "Organic", "Chemistry")...)...)
	assert.Contains(t, out, "Added Organic Chemistry (weight 7)")

	out = run(t, append([]string{"subject", "list", "--json"}, common...)...)
	var subjects []syllabus.Subject
	require.NoError(t, json.Unmarshal([]byte(out), &subjects), out)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Organic Chemistry", subjects[0].Name)
	assert.Equal(t, 7, subjects[0].Weight)
}
