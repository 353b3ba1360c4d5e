// Package tui provides an interactive terminal chat over stored
// conversations. It is a driving adapter over the core services.
package tui

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Conversations lists, opens and continues conversations.
	Conversations driving.ConversationService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Conversations == nil {
		return ErrMissingConversationService
	}
	return nil
}
