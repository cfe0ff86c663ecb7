package common

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned by session scoped operations when no wallet
	// is connected.
	ErrNoSession = errors.New("no active session")
	// ErrStaleSession is returned when the session an operation started
	// against was replaced or torn down before the operation settled. The
	// operation's result is discarded.
	ErrStaleSession = errors.New("session changed while the operation was in flight")
	ErrNoContract   = errors.New("no contract is bound to the session")
	ErrNoSigner     = errors.New("connected account has no signer")
)

// ValidationError reports a malformed literal. It is always returned before
// any network call is made.
type ValidationError struct {
	Kind  string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Value)
}

// NotFoundError means the node confirmed the transaction does not exist.
type NotFoundError struct {
	Hash string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transaction %s not found", e.Hash)
}

// NotMinedError means the node knows the transaction but has no receipt yet.
type NotMinedError struct {
	Hash string
}

func (e *NotMinedError) Error() string {
	return fmt.Sprintf("transaction %s is not mined yet", e.Hash)
}

// QueryError wraps a transport or remote failure on a required sub-query.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %s", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// PollError is the single failure surfaced by the event feed poller.
type PollError struct {
	Message string
	Err     error
}

func (e *PollError) Error() string {
	if e.Err != nil && e.Message == "" {
		return fmt.Sprintf("event poll failed: %s", e.Err)
	}
	return fmt.Sprintf("event poll failed: %s", e.Message)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

// SubmissionError means a write was rejected before broadcast, reverted on
// chain, never showed up on the node, or was broadcast but left unconfirmed.
type SubmissionError struct {
	Hash   string
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	msg := "transaction " + e.Reason
	if e.Hash != "" {
		msg = fmt.Sprintf("transaction %s %s", e.Hash, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
