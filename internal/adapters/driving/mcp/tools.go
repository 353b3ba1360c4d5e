package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AskInput is the input schema for the ask_documents tool.
type AskInput struct {
	Paths    []string `json:"paths" jsonschema:"absolute paths of the PDF files to consult"`
	Question string   `json:"question" jsonschema:"the question to answer from the documents"`
}

// AskOutput is the output schema for the ask_documents tool.
type AskOutput struct {
	Answer    string   `json:"answer"`
	Failed    bool     `json:"failed"`
	Documents int      `json:"documents"`
	Chunks    int      `json:"chunks"`
	Warnings  []string `json:"warnings,omitempty"`
}

// PackInput is the input schema for the pack_context tool.
type PackInput struct {
	Paths []string `json:"paths" jsonschema:"absolute paths of the PDF files to pack"`
	Query string   `json:"query" jsonschema:"the query used to rank chunks"`
}

// PackOutput is the output schema for the pack_context tool.
type PackOutput struct {
	Context   string          `json:"context"`
	Documents int             `json:"documents"`
	Chunks    []PackedChunk   `json:"chunks"`
	Truncated bool            `json:"truncated"`
	Messages  []MessageOutput `json:"messages"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// PackedChunk describes one chunk accepted into the context.
type PackedChunk struct {
	Document int `json:"document"`
	Position int `json:"position"`
	Score    int `json:"score"`
	Length   int `json:"length"`
}

// MessageOutput is one message of the assembled model request.
type MessageOutput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SummariseInput is the input schema for the summarise_document tool.
type SummariseInput struct {
	Path string `json:"path" jsonschema:"absolute path of the PDF file to summarise"`
}

// SummariseOutput is the output schema for the summarise_document tool.
type SummariseOutput struct {
	Summary string `json:"summary"`
	Failed  bool   `json:"failed"`
}

var errEmptyQuestion = errors.New("question is required")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_documents",
		Description: "Answer a question using only the content of the given PDF files",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "pack_context",
		Description: "Rank and pack the most relevant PDF chunks for a query without calling a model",
	}, s.handlePack)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarise_document",
		Description: "Summarise a single PDF file",
	}, s.handleSummarise)
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if input.Question == "" {
		return nil, AskOutput{}, errEmptyQuestion
	}

	reply, err := s.ports.Chat.Send(ctx, input.Paths, nil, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:    reply.Answer,
		Failed:    reply.Failed,
		Documents: reply.Context.DocumentCount(),
		Chunks:    len(reply.Context.Chunks),
		Warnings:  reply.Warnings,
	}, nil
}

func (s *Server) handlePack(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PackInput,
) (*mcp.CallToolResult, PackOutput, error) {
	prepared, err := s.ports.Chat.Prepare(ctx, input.Paths, nil, input.Query)
	if err != nil {
		return nil, PackOutput{}, err
	}
	return nil, packOutput(prepared), nil
}

func (s *Server) handleSummarise(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummariseInput,
) (*mcp.CallToolResult, SummariseOutput, error) {
	reply, err := s.ports.Chat.Summarise(ctx, input.Path)
	if err != nil {
		return nil, SummariseOutput{}, err
	}
	return nil, SummariseOutput{Summary: reply.Answer, Failed: reply.Failed}, nil
}

func packOutput(prepared *domain.PreparedTurn) PackOutput {
	out := PackOutput{
		Context:   prepared.Context.Text,
		Documents: prepared.Context.DocumentCount(),
		Chunks:    make([]PackedChunk, len(prepared.Context.Chunks)),
		Truncated: prepared.Context.Truncated,
		Messages:  make([]MessageOutput, len(prepared.Request.Messages)),
		Warnings:  prepared.Warnings,
	}
	for i, c := range prepared.Context.Chunks {
		out.Chunks[i] = PackedChunk{
			Document: c.DocIndex + 1,
			Position: c.Position,
			Score:    c.Score,
			Length:   len([]rune(c.Text)),
		}
	}
	for i, m := range prepared.Request.Messages {
		out.Messages[i] = MessageOutput{Role: m.Role.String(), Content: m.Content}
	}
	return out
}
