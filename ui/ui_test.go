package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyledTextMarshalsAsPlainString(t *testing.T) {
	out, err := json.Marshal(map[string]StyledText{"status": {Text: "success", Severity: SeveritySuccess}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success"}`, string(out))
}

func TestWriterUITableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	u := NewWriterUI(&buf, strings.NewReader(""))
	u.Table([]string{"kind", "block"}, [][]string{{"grabbed", "12"}, {"deposited", "9"}})

	lines := strings.Split(strings.TrimRight(ansi.Strip(buf.String()), "\n"), "\n")
	require.Len(t, lines, 6)
	for _, l := range lines[1:] {
		assert.Equal(t, len([]rune(lines[0])), len([]rune(l)))
	}
	assert.Contains(t, lines[3], "grabbed")
}

func TestWriterUIKeyValue(t *testing.T) {
	var buf bytes.Buffer
	u := NewWriterUI(&buf, strings.NewReader(""))
	u.Indent().KeyValue([][2]string{{"Hash", "0xabc"}, {"Confirmations", "3"}})
	assert.Equal(t, "  Hash           0xabc\n  Confirmations  3\n", buf.String())
}

func TestWriterUIConfirm(t *testing.T) {
	var buf bytes.Buffer
	u := NewWriterUI(&buf, strings.NewReader("maybe\ny\n\n"))
	assert.True(t, u.Confirm("Broadcast?", false))
	assert.Contains(t, buf.String(), "please enter y or n")
	assert.True(t, u.Confirm("Again?", true))
	assert.False(t, u.Confirm("At EOF?", true))
}

func TestRecordingUI(t *testing.T) {
	r := NewRecordingUI("n")
	r.Info("hello %s", "there")
	r.Table([]string{"a", "b"}, [][]string{{"1", "2"}})
	assert.False(t, r.Confirm("Send?", true))
	assert.True(t, r.HasMessage("HELLO"))
	assert.Equal(t, []string{"1 | 2"}, r.Values("TableRow"))
	assert.Panics(t, func() { r.Confirm("Again?", true) })
}
