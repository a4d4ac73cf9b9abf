// Package sink provides wizard.Sink implementations for the completed record:
// a structured log line, an in-memory list, an HTTP endpoint, a SQLite table
// and a Redis hash announced on a stream. Every sink receives the full
// submission; only the log sink is safe to point at shared output because it
// records field names and never values.
package sink
