package ui

import (
	"encoding/json"
	"io"
)

// Severity is the visual weight of an inline value.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarn
	SeverityError
	SeverityCritical
)

// StyledText is a plain string tagged with a Severity. It marshals to JSON
// as the bare string.
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

func Plain(text string) StyledText {
	return StyledText{Text: text}
}

// UI is the output surface of every command. TerminalUI writes to stdout,
// RecordingUI captures calls for tests.
//
// Records are rendered with KeyValue for single items and Table or
// TableWithGroups for lists. Embed coloured values with Style:
//
//	u.KeyValue([][2]string{{"Status", u.Style(status)}})
type UI interface {
	// Style renders t in the colour of its severity. Without colours the
	// plain text comes back.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error reports a failure. It does not exit.
	Error(format string, args ...any)
	// Critical is for data the user must read before or right after an
	// irreversible action, such as a transaction about to be signed.
	Critical(format string, args ...any)

	Section(title string)
	KeyValue(rows [][2]string)
	Table(headers []string, rows [][]string)
	TableWithGroups(headers []string, groups [][][]string)

	// Spinner shows msg until the returned stop function is called.
	Spinner(msg string) func()

	// Confirm asks a yes or no question. An empty answer picks defaultYes.
	Confirm(prompt string, defaultYes bool) bool

	Indent() UI
	// Writer is the raw output, used for JSON dumps.
	Writer() io.Writer
}
