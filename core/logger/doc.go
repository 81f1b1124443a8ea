// Package logger is a standardized event logging framework for the shell.
//
// Events are written as newline delimited JSON by zerolog. Every event
// carries the session ID of the shell that produced it and an "event" field
// naming its type.
package logger
