// Package logger provides structured logging for lifekit built on zerolog.
//
// It exposes a configured Logger type with component tagging, a global
// logger for package-level convenience functions, and standard field key
// constants so lifecycle events log with consistent shapes.
package logger
