package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrScriptExhausted is returned by ScriptedDriver when the answers run
	// out before the form is finished.
	ErrScriptExhausted = errors.New("tui: scripted answers exhausted")
	// ErrInvalidAnswer is returned by ScriptedDriver when a scripted answer
	// cannot satisfy the prompt it was given to.
	ErrInvalidAnswer = errors.New("tui: invalid scripted answer")
)
