// Package logging defines the Logger interface shared by the CLI, server
// and engines, plus the zerolog-backed implementation and a no-op variant
// for tests. Call sites attach context through Field constructors rather
// than depending on zerolog directly.
package logging
