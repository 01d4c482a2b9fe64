package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("a\nb\n\n\n"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	if err != nil {
		t.Fatal(err)
	}
	want := "a\nb"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGetMultiline_CRLFAndEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("first\r\nsecond"))
	var out bytes.Buffer
	got, err := GetMultiline(in, "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)
}

func TestGetSecret_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetSecret("Secret", &out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetSecret_ReturnsInput(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }

	var out bytes.Buffer
	got, err := GetSecret("Secret", &out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(got))
	assert.Contains(t, out.String(), "Secret: ")
}

func TestReadBody_FromPipe(t *testing.T) {
	var out bytes.Buffer
	got, err := readBody(strings.NewReader("  line one\nline two\n\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", got)
	assert.Empty(t, out.String())
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "date only", in: "2025-05-30", want: "2025-05-30"},
		{name: "date and time", in: "2025-05-30 08:15", want: "2025-05-30"},
		{name: "rfc3339", in: "2025-05-30T08:15:00Z", want: "2025-05-30"},
		{name: "yesterday", in: "yesterday", want: "2025-06-03"},
		{name: "tomorrow", in: "tomorrow", want: "2025-06-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.in, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(time.DateOnly))
		})
	}

	_, err := parseDate("2025-05-30 08:15", now)
	require.NoError(t, err)

	_, err = parseDate("qwerty", now)
	assert.Error(t, err)
}

func TestParseDate_KeepsClock(t *testing.T) {
	now := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)
	got, err := parseDate("2025-05-30 08:15", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 30, 8, 15, 0, 0, time.UTC), got)
}
