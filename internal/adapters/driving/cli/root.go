// Package cli implements the docchat command line.
//
// Commands are cobra commands registered on rootCmd from init functions.
// They reach the core through the driving ports held in package-level
// variables, which are filled in by the Initialiser once the persistent
// flags have been parsed.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=1.2.3".
var version = "dev"

// skipInit marks commands that run without building services.
const skipInit = "docchat/skip-init"

// Services holds everything the commands need from the core.
type Services struct {
	Documents     driving.DocumentService
	Chat          driving.ChatService
	Conversations driving.ConversationService
	Settings      driving.SettingsService

	// ValidateLLM pings the provider described by settings.
	ValidateLLM func(ctx context.Context, settings *domain.LLMSettings) error

	// Close releases stores and background workers. May be nil.
	Close func() error
}

// Options are the persistent flag values handed to the Initialiser.
type Options struct {
	ConfigDir string
	Verbose   bool
}

// Initialiser builds the services for one invocation.
type Initialiser func(ctx context.Context, opts Options) (*Services, error)

var (
	initialiser Initialiser

	documentService     driving.DocumentService
	chatService         driving.ChatService
	conversationService driving.ConversationService
	settingsService     driving.SettingsService
	validateLLM         func(ctx context.Context, settings *domain.LLMSettings) error
	closeServices       func() error

	configDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your PDF documents",
	Long: `docchat answers questions about PDF files using a language model.

Documents are extracted, normalised and split into chunks. For each
question the chunks are ranked by keyword overlap, packed into a bounded
context and sent to the model together with recent conversation history.

Conversations are stored in the data directory (~/.docchat by default)
and can be continued from the command line, the terminal UI or an MCP
client.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "data directory (default ~/.docchat)")
}

// SetInitialiser sets the function that builds services before a command runs.
func SetInitialiser(fn Initialiser) {
	initialiser = fn
}

// SetServices installs services directly, replacing any built so far.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	documentService = s.Documents
	chatService = s.Chat
	conversationService = s.Conversations
	settingsService = s.Settings
	validateLLM = s.ValidateLLM
	closeServices = s.Close
}

// Execute runs the root command and closes services, even when the
// command fails.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, teardownServices(rootCmd, nil))
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if initialiser == nil || cmd.Annotations[skipInit] != "" {
		return nil
	}

	services, err := initialiser(cmd.Context(), Options{ConfigDir: configDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	fn := closeServices
	closeServices = nil
	return fn()
}

// Errors returned when a command runs before its service was wired.
var (
	errNoDocumentService     = errors.New("document service not configured")
	errNoChatService         = errors.New("chat service not configured")
	errNoConversationService = errors.New("conversation service not configured")
	errNoSettingsService     = errors.New("settings service not configured")
)
