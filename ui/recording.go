package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Entry is one recorded UI call. Table rows are recorded one entry per row
// with cells joined by " | ".
type Entry struct {
	Method string
	Value  string
}

type recorder struct {
	mu      sync.Mutex
	entries []Entry
	answers []string
	buf     bytes.Buffer
}

// RecordingUI captures output for tests and answers Confirm from a script.
// Children created by Indent share the log and the script.
type RecordingUI struct {
	rec *recorder
}

func NewRecordingUI(answers ...string) *RecordingUI {
	return &RecordingUI{rec: &recorder{answers: answers}}
}

func (r *RecordingUI) record(method, value string) {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	r.rec.entries = append(r.rec.entries, Entry{Method: method, Value: value})
}

func (r *RecordingUI) Style(t StyledText) string { return t.Text }

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Critical(format string, args ...any) {
	r.record("Critical", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) {
	r.record("Section", title)
}

func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.record("KeyValue", row[0]+": "+row[1])
	}
}

func (r *RecordingUI) Table(headers []string, rows [][]string) {
	r.TableWithGroups(headers, [][][]string{rows})
}

func (r *RecordingUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(headers) > 0 {
		r.record("TableHeader", strings.Join(headers, " | "))
	}
	for _, g := range groups {
		for _, row := range g {
			r.record("TableRow", strings.Join(row, " | "))
		}
	}
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

// Confirm panics when the script has no answer left, which means the test
// script is wrong.
func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.record("Confirm", prompt)
	r.rec.mu.Lock()
	if len(r.rec.answers) == 0 {
		r.rec.mu.Unlock()
		panic(fmt.Sprintf("RecordingUI: no scripted answer for %q", prompt))
	}
	answer := strings.ToLower(strings.TrimSpace(r.rec.answers[0]))
	r.rec.answers = r.rec.answers[1:]
	r.rec.mu.Unlock()
	if answer == "" {
		return defaultYes
	}
	return answer == "y" || answer == "yes"
}

func (r *RecordingUI) Indent() UI { return r }

func (r *RecordingUI) Writer() io.Writer {
	return lockedWriter{r.rec}
}

type lockedWriter struct{ rec *recorder }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.rec.mu.Lock()
	defer w.rec.mu.Unlock()
	return w.rec.buf.Write(p)
}

func (r *RecordingUI) Entries() []Entry {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return append([]Entry(nil), r.rec.entries...)
}

// Values returns the values recorded by method, in order.
func (r *RecordingUI) Values(method string) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}

// HasMessage reports whether any entry contains substr, ignoring case.
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.Entries() {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}

func (r *RecordingUI) Output() string {
	r.rec.mu.Lock()
	defer r.rec.mu.Unlock()
	return r.rec.buf.String()
}
