package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kurihiro0119/repo-hub/internal/aggregator"
	"github.com/kurihiro0119/repo-hub/internal/collector"
	"github.com/kurihiro0119/repo-hub/internal/config"
	"github.com/kurihiro0119/repo-hub/internal/domain"
	"github.com/kurihiro0119/repo-hub/internal/logging"
	"github.com/kurihiro0119/repo-hub/internal/storage"
	"github.com/kurihiro0119/repo-hub/internal/storage/postgres"
	"github.com/kurihiro0119/repo-hub/internal/storage/sqlite"
	"github.com/kurihiro0119/repo-hub/pkg/client"
)

var (
	hubFile     string
	outputJSON  bool
	remote      bool
	limit       int
	backendName string
)

var rootCmd = &cobra.Command{
	Use:   "repo-hub",
	Short: "Repository hub tool",
	Long: `A CLI tool for listing the repositories of an account and its organizations.

Repositories are fetched from GitHub or GitLab for the account named in the
hub settings file, followed by every configured organization in order.`,
	SilenceUsage: true,
}

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List aggregated repositories",
	Long:  `Fetch the primary account's repositories followed by each organization's and print them.`,
	Args:  cobra.NoArgs,
	RunE:  runRepos,
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Build a repository search",
	Long:  `Build a search query against a backend. Results are not populated yet.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent aggregation runs",
	Long:  `Display the most recent aggregation runs recorded in storage.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hubFile, "hub", "", "hub settings file (default is $HUB_CONFIG or hub.toml)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&remote, "remote", false, "query the API server at $API_ENDPOINT instead of running locally")

	searchCmd.Flags().StringVar(&backendName, "backend", "github", "backend to search (github, gitlab)")
	historyCmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to show")

	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if hubFile != "" {
		cfg.HubPath = hubFile
	}
	return cfg, nil
}

// getStorage returns nil when run history is disabled
func getStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageType {
	case "postgres":
		return postgres.NewPostgresStorage(cfg.PostgresURL)
	case "sqlite":
		return sqlite.NewSQLiteStorage(cfg.SQLitePath)
	default:
		return nil, nil
	}
}

func runRepos(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var repos []*domain.Repository
	if remote {
		repos, err = client.NewClient(cfg.APIEndpoint).GetRepositories(ctx)
		if err != nil {
			return fmt.Errorf("failed to get repositories: %w", err)
		}
	} else {
		repos, err = aggregateLocal(ctx, cfg)
		if err != nil {
			return err
		}
	}

	if outputJSON {
		return printJSON(os.Stdout, repos)
	}
	printRepositories(os.Stdout, repos)
	return nil
}

func aggregateLocal(ctx context.Context, cfg *config.Config) ([]*domain.Repository, error) {
	hub, err := config.LoadHub(cfg.HubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load hub settings: %w", err)
	}

	coll, err := collector.New(cfg.AggregationBackend(), config.EnvCredentials(), cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	store, err := getStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if store != nil {
		defer store.Close()
	}

	agg := aggregator.NewAggregator(coll, store, logging.New(os.Stderr, cfg.LogLevel))
	repos, err := agg.Aggregate(ctx, hub.Name, hub.Orgs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate repositories: %w", err)
	}
	return repos, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	backend, err := domain.ParseBackend(backendName)
	if err != nil {
		return err
	}
	query := args[0]

	// Loads .env, which may hold the backend tokens.
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if remote {
		result, err := client.NewClient(cfg.APIEndpoint).Search(cmd.Context(), backend, query)
		if err != nil {
			return fmt.Errorf("failed to search: %w", err)
		}
		if outputJSON {
			return printJSON(os.Stdout, result)
		}
		printSearch(os.Stdout, result.Query, result.Backend, result.URL)
		return nil
	}

	search, err := domain.NewSearch(backend, config.EnvCredentials())
	if err != nil {
		return err
	}
	results := search.SetQ(query).Get()

	if outputJSON {
		return printJSON(os.Stdout, &client.SearchResponse{
			Query:       search.Query(),
			Backend:     results.Backend,
			Description: results.Description,
			URL:         results.URL,
		})
	}
	printSearch(os.Stdout, search.Query(), results.Backend, results.URL)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var runs []*domain.AggregationRun
	if remote {
		runs, err = client.NewClient(cfg.APIEndpoint).GetRuns(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to get runs: %w", err)
		}
	} else {
		store, err := getStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		if store == nil {
			return fmt.Errorf("run history is disabled: set STORAGE_TYPE to 'sqlite' or 'postgres'")
		}
		defer store.Close()

		runs, err = store.GetRuns(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to get runs: %w", err)
		}
	}

	if outputJSON {
		return printJSON(os.Stdout, runs)
	}
	printRuns(os.Stdout, runs)
	return nil
}
