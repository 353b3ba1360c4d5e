// Package memory provides in-memory implementations of the storage ports.
// Nothing survives the process; use it for tests and one-shot commands.
package memory
