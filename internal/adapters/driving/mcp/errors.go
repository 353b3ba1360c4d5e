// Package mcp exposes document chat over the Model Context Protocol so
// assistants can ask questions about local PDFs.
package mcp

import "errors"

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
