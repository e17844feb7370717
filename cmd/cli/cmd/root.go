// Package cmd provides the CLI commands for dive-pricing.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dive-pricing/adapters/storage"
	"dive-pricing/api"
	"dive-pricing/core/engine"
	"dive-pricing/core/pricing"
	"dive-pricing/internal/config"
	"dive-pricing/internal/logging"
)

var (
	cfgFile   string
	verbose   bool
	remoteURL string
	dataFile  string
	asJSON    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dive-pricing",
	Short: "Price dive operations from vendor agreements",
	Long: `dive-pricing calculates boat charters, gas fills, price resolution,
and per-diver cost splits from time-bounded vendor agreements.

All arithmetic is exact decimal with round-half-to-even; shared costs
split penny-exact across divers.

Examples:
  dive-pricing boat-cost 5bd3a2b6-25ab-4c3b-8a1e-0f6a3d1c9e42 --divers 6
  dive-pricing gas-fills 9f6d1c7e-3b2a-4e8d-b5c4-7a1f0e9d8c3b --gas air --fills 2
  dive-pricing allocate 1800.00 --divers 7`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dive-pricing/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "base URL of a remote pricing service")
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "reference data file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(boatCostCmd)
	rootCmd.AddCommand(gasFillsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(totalsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// newBackend builds the calculation backend the flags and config select:
// local-only by default, or a remote client with local fallback when a
// remote URL is given.
func newBackend() (engine.Backend, error) {
	cfg := config.Get()

	path := dataFile
	if path == "" {
		path = cfg.Pricing.DataPath
	}

	store := pricing.NewMemoryStore()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			store, err = storage.NewLoader().Load(path)
			if err != nil {
				return nil, err
			}
		}
	}
	local := engine.NewLocal(store)

	url := remoteURL
	if url == "" && cfg.Engine.Backend == "remote" {
		url = cfg.Engine.RemoteURL
	}
	if url == "" {
		return engine.New(local, nil, logging.Logger), nil
	}

	remote := api.NewClient(url, cfg.Engine.Timeout())
	var fallback engine.Backend
	if cfg.Engine.FallbackEnabled {
		fallback = local
	}
	return engine.New(remote, fallback, logging.Logger), nil
}

// printJSON renders any result value as indented JSON
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("dive-pricing version 1.0.0")
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(config.Get())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = home + "/.dive-pricing/config.json"
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
