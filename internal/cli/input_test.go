package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name: ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name", &out)
	assert.Error(t, err)
}

func stubTerminal(t *testing.T, terminal bool, pw []byte, err error) {
	t.Helper()
	oldRead, oldIs := readPassword, isTerminal
	readPassword = func(int) ([]byte, error) { return pw, err }
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() {
		readPassword = oldRead
		isTerminal = oldIs
	})
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, []byte("s3cret"), nil)

	var out bytes.Buffer
	pw, err := GetPassword(rdr("ignored\n"), "Password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
}

func TestGetPassword_TerminalError(t *testing.T) {
	stubTerminal(t, true, nil, errors.New("boom"))

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Password", &out)
	assert.Error(t, err)
}

func TestGetPassword_Piped(t *testing.T) {
	stubTerminal(t, false, nil, errors.New("must not be called"))

	var out bytes.Buffer
	pw, err := GetPassword(rdr("from-pipe\nnext\n"), "New password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("from-pipe"), pw)
	assert.Equal(t, "New password: ", out.String())
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{name: "plain", line: "mkdir Docs", want: []string{"mkdir", "Docs"}},
		{name: "extra spaces", line: "  rename  a   b ", want: []string{"rename", "a", "b"}},
		{name: "double quotes", line: `rename "Q1 report.pdf" final.pdf`, want: []string{"rename", "Q1 report.pdf", "final.pdf"}},
		{name: "single quotes", line: `mkdir 'Board minutes'`, want: []string{"mkdir", "Board minutes"}},
		{name: "empty quoted", line: `mkdir ""`, want: []string{"mkdir", ""}},
		{name: "tabs", line: "cd\t..", want: []string{"cd", ".."}},
		{name: "empty", line: "", want: nil},
		{name: "unterminated", line: `mkdir "oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
