package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the LLM provider, chunking and packing limits, and
storage backends.

Settings live in config.toml in the data directory. DOCCHAT_API_KEY in the
environment or a .env file overrides llm.api_key.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Long: `Change a single setting by its config key.

Examples:
  docchat settings set llm.model command-a-03-2025
  docchat settings set chat.context_budget 8000
  docchat settings set cache.backend sqlite

Run 'docchat settings keys' for the full list of keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider interactively",
	Long:  `Choose a provider, model and API key, then check the provider answers.`,
	RunE:  runSettingsLLM,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the configured LLM provider is reachable",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

type setting struct {
	label, value string
}

func printSection(cmd *cobra.Command, name string, rows ...setting) {
	cmd.Printf("[%s]\n", name)
	for _, r := range rows {
		cmd.Printf("  %s: %s\n", r.label, r.value)
	}
	cmd.Println()
}

func llmRows(llm domain.LLMSettings) []setting {
	rows := []setting{
		{"Provider", llm.Provider.Description()},
		{"Model", llm.Model},
		{"Base URL", llm.BaseURL},
	}
	if llm.Provider.RequiresAPIKey() {
		key := "(not set)"
		if llm.APIKey != "" {
			key = maskAPIKey(llm.APIKey)
		}
		rows = append(rows, setting{"API Key", key})
	}

	rate := "off"
	if llm.RequestsPerSecond > 0 {
		rate = fmt.Sprintf("%g/s (burst %d)", llm.RequestsPerSecond, llm.Burst)
	}
	status := "not configured"
	if llm.IsConfigured() {
		status = "configured"
	}
	return append(rows,
		setting{"Timeout", llm.Timeout.String()},
		setting{"Max tokens", strconv.Itoa(llm.MaxTokens)},
		setting{"Rate limit", rate},
		setting{"Status", status},
	)
}

func chatRows(chat domain.ChatSettings) []setting {
	perDoc := "unlimited"
	if chat.MaxChunksPerDocument > 0 {
		perDoc = strconv.Itoa(chat.MaxChunksPerDocument)
	}
	return []setting{
		{"Chunk size", strconv.Itoa(chat.ChunkSize)},
		{"Context budget", strconv.Itoa(chat.ContextBudget)},
		{"History window", strconv.Itoa(chat.HistoryWindow)},
		{"History fetch limit", strconv.Itoa(chat.HistoryFetchLimit)},
		{"Max chunks per document", perDoc},
	}
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Print("Current Settings\n================\n\n")
	printSection(cmd, "LLM", llmRows(settings.LLM)...)
	printSection(cmd, "Chat", chatRows(settings.Chat)...)
	printSection(cmd, "Storage",
		setting{"Cache", string(settings.Cache)},
		setting{"PDF backend", string(settings.PDF)},
	)

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\nRun 'docchat settings llm' to fix configuration issues.\n", err)
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w. Run 'docchat settings keys' to list valid keys", err)
		}
		return fmt.Errorf("failed to save setting: %w", err)
	}

	shown := value
	if strings.HasSuffix(key, "api_key") {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettingsService
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Checking %s (%s)... ", settings.LLM.Provider.Description(), settings.LLM.Model)
	if err := checkLLM(cmd, &settings.LLM); err != nil {
		cmd.Println("FAILED")
		return err
	}
	cmd.Println("OK")
	return nil
}

func chooseProvider(cmd *cobra.Command, reader *bufio.Reader) domain.AIProvider {
	providers := domain.AllLLMProviders()
	cmd.Println("Select LLM Provider")
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	return providers[parseChoice(readLine(reader), len(providers), 1)-1]
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	provider := chooseProvider(cmd, reader)

	model := domain.DefaultLLMModels()[provider]
	cmd.Printf("Enter model name [%s]: ", model)
	if typed := readLine(reader); typed != "" {
		model = typed
	}

	var apiKey string
	if provider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := checkLLM(cmd, &settings.LLM); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Printf("OK\nLLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func checkLLM(cmd *cobra.Command, settings *domain.LLMSettings) error {
	if validateLLM == nil {
		return errors.New("LLM validation not configured")
	}
	return validateLLM(cmd.Context(), settings)
}

// readLine returns the next line without surrounding space, or "" at EOF.
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// parseChoice reads a 1-based menu choice, returning defaultVal for
// anything outside 1..maxVal.
func parseChoice(input string, maxVal, defaultVal int) int {
	if val, err := strconv.Atoi(input); err == nil && val >= 1 && val <= maxVal {
		return val
	}
	return defaultVal
}

// readPassword reads without echo on a terminal and falls back to reader.
func readPassword(reader *bufio.Reader) string {
	if stdinIsTerminal() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

// maskAPIKey keeps the first and last four characters of keys long
// enough that this hides most of them.
func maskAPIKey(key string) string {
	const keep = 4
	if len(key) <= 2*keep {
		return "****"
	}
	return key[:keep] + "..." + key[len(key)-keep:]
}
