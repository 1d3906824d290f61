// Package logger provides structured logging built on zerolog.
//
// Components receive a Logger instance rather than writing to a global
// print primitive; the global instance exists for the CLI entry points.
// Initialize also wires a bounded Ring capture into the output chain so
// the HTTP surface can serve the most recent log entries without any
// process-wide stdout interception.
package logger
