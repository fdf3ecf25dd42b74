// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder,
//   - a file-backed variant that truncates the journal at startup and appends afterwards,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and convenience functions (Infof, InfoKV, ErrorKV, etc.).
//
// Services accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the codebase.
package logger
