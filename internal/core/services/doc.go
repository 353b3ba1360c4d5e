// Package services implements the driving ports.
//
// DocumentService turns a PDF into cached chunks. Rank, Pack and the
// Assemble functions are pure and hold the context budget rules.
// ChatService and ConversationService combine them with an LLMService.
package services
