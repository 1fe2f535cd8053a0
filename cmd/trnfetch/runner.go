package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Sternrassler/bf6-tracker-bot/internal/config"
	"github.com/Sternrassler/bf6-tracker-bot/internal/roster"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/client"
	"github.com/Sternrassler/bf6-tracker-bot/pkg/tracker"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// errAbsent makes the process exit 1 after printing "absent".
var errAbsent = errors.New("absent")

// Runner executes trnfetch with injectable writers.
type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a Runner.
func NewRunner(stdout, stderr io.Writer) *Runner {
	return &Runner{stdout: stdout, stderr: stderr}
}

type globalFlags struct {
	envFile string
	apiKey  string
	baseURL string
	fresh   bool
	verbose bool
}

// Run executes args and returns the exit code.
func (r *Runner) Run(args []string) int {
	var flags globalFlags
	var api *tracker.API

	root := &cobra.Command{
		Use:   "trnfetch",
		Short: "Query tracker.gg Battlefield 6 endpoints",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := r.newAPI(flags)
			if err != nil {
				return err
			}
			api = a
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "optional .env file")
	root.PersistentFlags().StringVar(&flags.apiKey, "api-key", "", "tracker.gg API key (overrides TRN_API_KEY)")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "API base URL (overrides TRN_BASE_URL)")
	root.PersistentFlags().BoolVar(&flags.fresh, "fresh", false, "bypass the cache read")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "profile <platform> <user-id>",
		Short: "Show a player's stats profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := roster.NormalizePlatform(args[0])
			if err != nil {
				return err
			}
			profile, ok := api.PlayerProfile(cmd.Context(), platform, tracker.UserID(args[1]), flags.fresh)
			if !ok {
				return errAbsent
			}
			return r.print(profile)
		},
	})

	var limit int
	matchesCmd := &cobra.Command{
		Use:   "matches <platform> <user-id>",
		Short: "List recent matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := roster.NormalizePlatform(args[0])
			if err != nil {
				return err
			}
			if limit < 1 {
				return fmt.Errorf("--limit must be positive (got %d)", limit)
			}
			matches := api.RecentMatches(cmd.Context(), platform, tracker.UserID(args[1]), limit)
			if len(matches) == 0 {
				return errAbsent
			}
			return r.print(matches)
		},
	}
	matchesCmd.Flags().IntVar(&limit, "limit", 5, "number of matches")
	root.AddCommand(matchesCmd)

	root.AddCommand(&cobra.Command{
		Use:   "search <platform> <query>",
		Short: "Find a player's tracker id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := roster.NormalizePlatform(args[0])
			if err != nil {
				return err
			}
			hit, ok := api.SearchPlayer(cmd.Context(), platform, args[1])
			if !ok {
				return errAbsent
			}
			return r.print(hit)
		},
	})

	root.SetArgs(args)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errAbsent):
		fmt.Fprintln(r.stdout, "absent")
		return 1
	default:
		fmt.Fprintf(r.stderr, "trnfetch: %v\n", err)
		return 2
	}
}

func (r *Runner) newAPI(flags globalFlags) (*tracker.API, error) {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := zerolog.WarnLevel
	if flags.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: r.stderr}).Level(level).With().Timestamp().Logger()

	clientCfg := cfg.ClientConfig()
	if flags.apiKey != "" {
		clientCfg.APIKey = flags.apiKey
	}
	if flags.baseURL != "" {
		clientCfg.BaseURL = flags.baseURL
	}
	clientCfg.Logger = &logger

	trn, err := client.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create tracker client: %w", err)
	}
	return tracker.NewAPI(trn, logger), nil
}

func (r *Runner) print(v any) error {
	enc := json.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
