// cmd/codescan/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/drxyu/cerebras-code-scanner/internal/config"
	"github.com/drxyu/cerebras-code-scanner/internal/prompts"
	"github.com/drxyu/cerebras-code-scanner/internal/provider"
	"github.com/drxyu/cerebras-code-scanner/internal/report"
	"github.com/drxyu/cerebras-code-scanner/internal/scanner"
	"github.com/drxyu/cerebras-code-scanner/internal/store"
	"github.com/drxyu/cerebras-code-scanner/internal/tui"

	// Register providers via init() side effects.
	_ "github.com/drxyu/cerebras-code-scanner/internal/provider/cerebras"
	_ "github.com/drxyu/cerebras-code-scanner/internal/provider/openai"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath        string
	outputFlag        string
	modelFlag         string
	providerFlag      string
	repositoryFlag    string
	categoriesFlag    []string
	subcategoriesFlag []string
	legacyFlag        bool
	maxTokensFlag     int
	formatFlag        string
	timeoutFlag       time.Duration
	concurrencyFlag   int
	verboseFlag       bool
	printFlag         bool
)

func versionString() string {
	return fmt.Sprintf("codescan %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "codescan [path]",
		Short: "AI-powered Python/SQL code scanner",
		Long:  "codescan — scans Python and SQL sources for security, performance, and maintainability issues using LLM analysis.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runScan(args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "scan_results.md", "output file path")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", "", "override model name")
	rootCmd.Flags().StringVar(&providerFlag, "provider", "", "override provider name")
	rootCmd.Flags().StringVarP(&repositoryFlag, "repository", "r", "", "path to prompt repository JSON file")
	rootCmd.Flags().StringSliceVarP(&categoriesFlag, "categories", "c", nil, "categories to scan (default: all)")
	rootCmd.Flags().StringSliceVarP(&subcategoriesFlag, "subcategories", "s", nil, "specific subcategories to scan (default: all)")
	rootCmd.Flags().BoolVarP(&legacyFlag, "legacy", "l", false, "use legacy mode (basic security and performance checks only)")
	rootCmd.Flags().IntVarP(&maxTokensFlag, "max-tokens", "t", 0, "maximum token limit for API calls")
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "output format: markdown, json (default: inferred from output extension)")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 10*time.Minute, "scan execution timeout")
	rootCmd.Flags().IntVar(&concurrencyFlag, "concurrency", 0, "override concurrent API calls")
	rootCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.Flags().BoolVarP(&printFlag, "print", "p", false, "print rendered results to the terminal")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runScan(path string) error {
	if verboseFlag {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	repoPath := repositoryFlag
	if repoPath == "" {
		repoPath = cfg.Scan.PromptsFile
	}
	repo, err := prompts.Load(repoPath)
	if err != nil {
		return err
	}

	target := scanner.ScanTarget{RootDir: path}
	categories := categoriesFlag
	subcategories := subcategoriesFlag

	if info.IsDir() {
		patterns, err := config.LoadScanIgnore(path)
		if err != nil {
			return err
		}
		target.IgnorePatterns = patterns

		project, err := config.LoadProjectConfig(path)
		if err != nil {
			return err
		}
		if project != nil {
			target.IgnorePatterns = append(target.IgnorePatterns, project.Ignore...)
			if len(categories) == 0 {
				categories = project.Categories
			}
			if len(subcategories) == 0 {
				subcategories = project.Subcategories
			}
			if modelFlag == "" && project.Model != "" {
				cfg.Provider.Model = project.Model
			}
		}
	}

	completer, err := provider.NewProvider(cfg)
	if err != nil {
		return err
	}
	completer = provider.NewRateLimited(completer, cfg.Scan.RateLimitPerMinute)

	engine := scanner.NewEngine(scanner.EngineConfig{
		Model: cfg.Provider.Model,
		Batcher: scanner.BatcherConfig{
			MaxTokens:        cfg.Scan.MaxTokens,
			ReservedOverhead: cfg.Scan.ReservedOverhead,
			MarkerOverhead:   cfg.Scan.MarkerOverhead,
		},
		SubcategoryBatchSize: cfg.Scan.SubcategoryBatchSize,
		Concurrency:          cfg.Scan.Concurrency,
		Categories:           categories,
		SubcategoryIDs:       subcategories,
		LegacyMode:           legacyFlag,
	}, completer, repo)

	ctx, cancel := context.WithTimeout(context.Background(), timeoutFlag)
	defer cancel()

	var rep *scanner.Report
	if info.IsDir() {
		rep, err = engine.Run(ctx, target)
	} else {
		rep, err = engine.ScanFile(ctx, path)
	}
	if err != nil {
		return err
	}

	saveHistory(cfg, rep)

	format := resolveFormat(formatFlag, outputFlag)
	formatter, err := report.New(format)
	if err != nil {
		return err
	}
	data, err := formatter.Format(rep)
	if err != nil {
		return fmt.Errorf("formatting results: %w", err)
	}
	if err := os.WriteFile(outputFlag, data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	log.Printf("results saved to %s", outputFlag)

	if printFlag && format != "json" {
		printRendered(string(data))
	}

	printSummary(rep)
	return nil
}

// resolveFormat picks the report format: an explicit --format wins,
// otherwise the output file extension decides (".json" selects JSON,
// anything else markdown).
func resolveFormat(format, output string) string {
	if format != "" {
		return format
	}
	if strings.EqualFold(filepath.Ext(output), ".json") {
		return "json"
	}
	return "markdown"
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

func applyFlags(cfg *config.Config) {
	if modelFlag != "" {
		cfg.Provider.Model = modelFlag
	}
	if providerFlag != "" {
		cfg.Provider.Default = providerFlag
	}
	if maxTokensFlag > 0 {
		cfg.Scan.MaxTokens = maxTokensFlag
	}
	if concurrencyFlag > 0 {
		cfg.Scan.Concurrency = concurrencyFlag
	}
}

// saveHistory records the run in the history database. History failures
// never fail the scan.
func saveHistory(cfg *config.Config, rep *scanner.Report) {
	dbPath, err := historyDBPath(cfg)
	if err != nil || dbPath == "" {
		return
	}
	st, err := store.NewStore(dbPath)
	if err != nil {
		log.Printf("opening history database: %v", err)
		return
	}
	defer st.Close()

	if err := st.SaveRun(rep, cfg.Provider.Model); err != nil {
		log.Printf("saving scan history: %v", err)
	}
}

func historyDBPath(cfg *config.Config) (string, error) {
	if cfg.Scan.HistoryDB != "" {
		return cfg.Scan.HistoryDB, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", "codescan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// printRendered writes the markdown report to stdout, styled when stdout
// is a terminal.
func printRendered(md string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(md)
		return
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 100
	}
	renderer, err := tui.NewMarkdownRenderer(width)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func printSummary(rep *scanner.Report) {
	fmt.Fprintf(os.Stderr, "Scanned %d files in %d batches (%d API calls, %d failed) in %s\n",
		rep.Stats.FilesScanned, rep.Stats.FileBatches, rep.Stats.APICalls,
		rep.Stats.FailedCalls, rep.Stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Collected %d analysis records across %d files\n",
		rep.Stats.Records, len(rep.Result.Files()))
	for _, e := range rep.Errors {
		fmt.Fprintf(os.Stderr, "  warning: %v\n", e)
	}
}

// shortID abbreviates a run id for display. Ids are uuids in practice, but
// the database accepts anything, so never assume a minimum length.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent scan runs",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dbPath, err := historyDBPath(cfg)
			if err != nil {
				return err
			}
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No scan runs recorded.")
				return nil
			}
			for _, r := range runs {
				fmt.Printf("%s  %s  %s  files=%d records=%d failed=%d (%dms)\n",
					r.StartedAt.Format("2006-01-02 15:04:05"), shortID(r.RunID), r.Root,
					r.FilesScanned, r.Records, r.FailedCalls, r.DurationMS)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show")
	return cmd
}
