package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tarotara/tarotara/internal/observe"
	"github.com/tarotara/tarotara/internal/profile"
	"github.com/tarotara/tarotara/internal/provider"
	"github.com/tarotara/tarotara/internal/retriever"
	"github.com/tarotara/tarotara/internal/store"
	"github.com/tarotara/tarotara/internal/ui"
	"github.com/tarotara/tarotara/internal/ui/tui"
)

var (
	verbose      bool
	providerType string
	modelName    string
	language     string
	corpusDir    string
	pluginPath   string
	cacheTTL     time.Duration
	ciMode       bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tarotara",
	Short: "Multilingual tarot reading assistant",
	Long: `TarotTara answers questions through tarot readings. Questions in any
language are translated, classified by intent, answered from the card
corpus and the model, and rendered back in your language.`,
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question and print the reading",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		question := strings.Join(args, " ")
		runAsk(question)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive reading session",
	Run: func(cmd *cobra.Command, args []string) {
		runChat()
	},
}

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the card meaning corpus",
}

var corpusBuildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Embed and index a corpus directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCorpusBuild(args[0])
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the querent profile",
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a profile file without saving it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runProfileValidate(args[0], false)
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set [file]",
	Short: "Validate and save the querent profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runProfileValidate(args[0], true)
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(askCmd)
	RootCmd.AddCommand(chatCmd)
	RootCmd.AddCommand(corpusCmd)
	RootCmd.AddCommand(profileCmd)
	corpusCmd.AddCommand(corpusBuildCmd)
	profileCmd.AddCommand(profileValidateCmd)
	profileCmd.AddCommand(profileSetCmd)

	for _, cmd := range []*cobra.Command{askCmd, chatCmd} {
		cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
		cmd.Flags().StringVarP(&providerType, "provider", "p", "ollama", "AI Provider (ollama, openai, gemini, anthropic, stub)")
		cmd.Flags().StringVarP(&modelName, "model", "m", "", "Model name (default depends on provider)")
		cmd.Flags().StringVarP(&language, "lang", "l", "", "Preferred language for readings (ISO 639-1)")
		cmd.Flags().StringVar(&corpusDir, "corpus", "", "Card meaning corpus directory")
		cmd.Flags().StringVar(&pluginPath, "plugin", "", "Path to an interpreter plugin binary")
		cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 0, "Reading cache TTL (default 1h)")
		cmd.Flags().BoolVar(&ciMode, "ci", false, "JSON log output, non-interactive")
	}
	corpusBuildCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	corpusBuildCmd.Flags().StringVarP(&providerType, "provider", "p", "ollama", "AI Provider used for embeddings")
	corpusBuildCmd.Flags().StringVarP(&modelName, "model", "m", "", "Model name (default depends on provider)")
}

func newObserver() *observe.Observer {
	if ciMode {
		return observe.NewJSON(os.Stderr, verbose)
	}
	return observe.New(os.Stderr, verbose)
}

func buildProvider(s store.Storage) (provider.Provider, error) {
	switch providerType {
	case "openai":
		baseURL, _ := s.GetConfig("openai.base_url")
		return provider.NewOpenAIProvider(getSecret(s, "openai.api_key"), baseURL, modelName)
	case "ollama":
		return provider.NewOllamaProvider(modelName)
	case "gemini":
		return provider.NewGeminiProvider(getSecret(s, "gemini.api_key"), modelName)
	case "anthropic":
		return provider.NewAnthropicProvider(getSecret(s, "anthropic.api_key"), modelName)
	case "stub":
		return provider.NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", providerType)
	}
}

func runnerOptions() Options {
	return Options{
		CorpusDir:  corpusDir,
		PluginPath: pluginPath,
		Language:   language,
		Offline:    providerType == "stub",
		TTL:        cacheTTL,
	}
}

func runAsk(question string) {
	obs := newObserver()
	defer obs.Close()

	s := getStore()
	defer s.Close()

	p, err := buildProvider(s)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize provider")
	}

	runner, err := NewRunner(obs, s, p, ui.ConsoleUI{}, runnerOptions())
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to start session")
	}
	defer runner.Close()

	runner.Ask(context.Background(), question)
}

func runChat() {
	obs := newObserver()
	defer obs.Close()

	s := getStore()
	defer s.Close()

	p, err := buildProvider(s)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize provider")
	}

	// The runner starts with a silent UI; once the program exists the TUI
	// takes over stage updates.
	runner, err := NewRunner(obs, s, p, nil, runnerOptions())
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to start session")
	}
	defer runner.Close()

	ask := func(question string) (string, []string, error) {
		resp := runner.ask(context.Background(), question)
		text := resp.Text
		for _, t := range resp.Translations {
			text += "\n\n" + t
		}
		return text, resp.Warnings, nil
	}

	model := tui.NewModel("TarotTara", ask)
	program := tea.NewProgram(model)
	runner.UI = tui.NewTUI(program)

	if _, err := program.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}

func runCorpusBuild(dir string) {
	obs := newObserver()
	defer obs.Close()

	s := getStore()
	defer s.Close()

	p, err := buildProvider(s)
	if err != nil {
		obs.Log().Fatal().Err(err).Msg("Failed to initialize provider")
	}

	ret := retriever.New(s, p, dir)
	if err := ret.Build(context.Background()); err != nil {
		obs.Log().Fatal().Err(err).Msg("Corpus build failed")
	}

	count, _ := s.CountChunks()
	fmt.Printf("Corpus indexed: %d chunks\n", count)
}

func runProfileValidate(path string, save bool) {
	loader := profile.New()
	p, err := loader.Load(path)
	if err != nil {
		fmt.Printf("Failed to load profile: %v\n", err)
		os.Exit(1)
	}

	result := loader.Validate(*p)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %s\n", e)
	}
	if !result.Valid {
		os.Exit(1)
	}

	if !save {
		fmt.Println("Profile is valid.")
		return
	}

	s := getStore()
	defer s.Close()

	if err := s.SaveProfile(p.ToStore("default")); err != nil {
		fmt.Printf("Failed to save profile: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Profile saved for %s.\n", p.Name)
}
