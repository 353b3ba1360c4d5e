package driven

// PromptStore loads the system prompts sent to the model by name.
type PromptStore interface {
	// Load returns the named prompt. Unknown names are an error.
	Load(name string) (string, error)

	// Reload drops cached prompts so edits on disk are picked up.
	Reload()
}

// Prompt names. None of them take format arguments.
const (
	// PromptChatSystem opens a multi-document chat.
	PromptChatSystem = "chat_system"

	// PromptAskSystem opens a one-off question about a single document.
	PromptAskSystem = "ask_system"

	// PromptSummariseSystem opens a summary request.
	PromptSummariseSystem = "summarise_system"
)
