package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tweetsearch/internal/runner"
	"tweetsearch/pkg/auth"
	"tweetsearch/pkg/backend"
	"tweetsearch/pkg/config"
	"tweetsearch/pkg/logger"
	"tweetsearch/pkg/search"
	"tweetsearch/pkg/ui"
)

var (
	// Search command flags
	searchMode   string
	minimumItems int
	maxRetries   int
	concurrency  int
	backendKind  string
	cookiesFile  string
	accountName  string
	outputFile   string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query> [query...]",
	Short: "Search tweets and print them as JSON",
	Long: `Search tweets matching each query until at least --min items were collected.

A session is reused from the cookie cache when possible. Otherwise the tool
logs in with credentials from, in order:
  - The account named with --account
  - The credentials section of the config file or TWEETSEARCH_* variables
  - Accounts stored with 'tweetsearch auth login'

With a single query the output is the list of items. With several queries
the output is one object per query holding its items.`,
	Example: `  # Top tweets for a hashtag
  tweetsearch search "#golang"

  # At least 100 of the latest tweets
  tweetsearch search "from:golang" --mode latest --min 100

  # Several queries, two at a time, written to a file
  tweetsearch search "#go" "#rust" "#zig" --concurrency 2 -o results.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchMode, "mode", "m", "Top", "result tab to search (Top, Latest, Media)")
	searchCmd.Flags().IntVarP(&minimumItems, "min", "n", search.DefaultMinimumItems, "minimum number of items to collect")
	searchCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "maximum number of search attempts")
	searchCmd.Flags().IntVar(&concurrency, "concurrency", 1, "number of queries searched at once")
	searchCmd.Flags().StringVar(&backendKind, "backend", "", "session backend (default from config)")
	searchCmd.Flags().StringVar(&cookiesFile, "cookies", "", "session cookie cache file")
	searchCmd.Flags().StringVarP(&accountName, "account", "a", "", "use specific stored account")
	searchCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write JSON to this file instead of stdout")
}

// loadConfig merges explicitly set flags over file, env and defaults
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("mode") {
		flags["mode"] = searchMode
	}
	if changed("min") {
		flags["min"] = minimumItems
	}
	if changed("max-retries") {
		flags["max-retries"] = maxRetries
	}
	if changed("concurrency") {
		flags["concurrency"] = concurrency
	}
	if changed("backend") {
		flags["backend"] = backendKind
	}
	if changed("cookies") {
		flags["cookies"] = cookiesFile
	}
	if changed("log-level") {
		flags["log-level"] = logLevel
	}

	return config.Load(configFile, flags)
}

// credentialSource picks the accounts the session provider may log in with
func credentialSource(cfg *config.Config) (auth.Source, error) {
	manager, err := auth.NewManager("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if accountName != "" {
		return auth.SourceFunc(func(ctx context.Context) (*auth.Account, error) {
			return manager.Retrieve(accountName)
		}), nil
	}

	return auth.Chain(auth.FromConfig(cfg.Credentials), manager), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Debug("tweetsearch starting")

	mode, err := search.ParseMode(cfg.Search.Mode)
	if err != nil {
		return err
	}

	reqs := make([]search.Request, 0, len(args))
	for _, query := range args {
		req, err := search.NewRequest(query, mode, cfg.Search.MinimumItems)
		if err != nil {
			return err
		}
		reqs = append(reqs, req)
	}

	creds, err := credentialSource(cfg)
	if err != nil {
		return err
	}

	provider, err := backend.NewProvider(cfg, creds, log)
	if err != nil {
		return fmt.Errorf("failed to create session provider: %w", err)
	}

	searcher := search.NewSearcher(provider, search.OptionsFromConfig(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, req := range reqs {
		ui.PrintInfo("Searching", fmt.Sprintf("%s (%s, min %d)", req.Query, req.Mode, req.MinimumItems))
	}

	results, runErr := runner.New(searcher, cfg.Search.Concurrency, log).Run(ctx, reqs)
	if runErr != nil {
		ui.PrintWarning("Search interrupted, writing partial results", runErr)
	}

	for _, res := range results {
		if len(res.Items) == 0 {
			ui.PrintWarning(fmt.Sprintf("No items collected for %q", res.Query))
			continue
		}
		ui.PrintSuccess(fmt.Sprintf("Collected %d items for %q", len(res.Items), res.Query))
	}

	if err := writeResults(results); err != nil {
		return err
	}
	return runErr
}

// writeResults prints a single query's items, or every result when several
// queries were given
func writeResults(results []runner.Result) error {
	var payload interface{} = results
	if len(results) == 1 {
		payload = results[0].Items
	}

	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if outputFile != "" {
		ui.PrintInfo("Results written", outputFile)
	}
	return nil
}
