// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chirp CLI, a command-line client
// for the X web API driven by browser session cookies.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/chirp/internal/errclass"
	"github.com/pdiddy/chirp/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// log is built in PersistentPreRunE from the log flags.
var log = logging.Nop()

// rootCmd is the base command for the chirp CLI.
var rootCmd = &cobra.Command{
	Use:   "chirp",
	Short: "Command-line client for X (Twitter)",
	Long: `chirp posts, reads and searches X using the session cookies of a logged-in
browser (auth_token and ct0). Credentials come from flags, the environment
(AUTH_TOKEN, CT0), a .env file, or the .secrets/ directory, in that order.

Results are written to stdout as JSON, YAML or text; logs go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log = logging.New(os.Stderr, viper.GetString("log_level"), viper.GetBool("log_pretty"))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./chirp.yaml or ~/.config/chirp/chirp.yaml)")
	pf.String("auth-token", "", "auth_token session cookie")
	pf.String("ct0", "", "ct0 CSRF cookie")
	pf.String("env-file", ".env", "dotenv file read for credentials")
	pf.String("secrets-dir", ".secrets", "directory holding auth-token and ct0 files")
	pf.Duration("timeout", 30*time.Second, "per-request timeout")
	pf.Int("quote-depth", 1, "levels of quoted tweets to include (0 disables)")
	pf.Float64("requests-per-second", 0, "pace outgoing requests (0 disables pacing)")
	pf.StringP("output", "o", "json", "output format: json, yaml or text")
	pf.Bool("cache", false, "save tweets and users seen into the local cache")
	pf.String("store", "", "cache database path (default .chirp/cache.db)")
	pf.String("metrics-file", "", "write request metrics in Prometheus text format to this file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Bool("log-pretty", false, "human-readable logs instead of JSON")

	for key, flag := range map[string]string{
		"timeout":             "timeout",
		"quote_depth":         "quote-depth",
		"requests_per_second": "requests-per-second",
		"output":              "output",
		"cache":               "cache",
		"store.path":          "store",
		"metrics_file":        "metrics-file",
		"log_level":           "log-level",
		"log_pretty":          "log-pretty",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chirp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "chirp"))
		}
	}

	viper.SetEnvPrefix("CHIRP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCode maps a command error to the process exit status: 2 for fatal
// errors (bad credentials, corrupt storage), 1 otherwise.
func exitCode(err error) int {
	if errclass.Classify(err).IsFatal {
		return 2
	}
	return 1
}

// reportError logs err with its classification and prints a hint for
// authentication failures.
func reportError(err error) {
	c := errclass.Classify(err)
	fields := logging.Fields{"auth": c.IsAuth, "storage": c.IsStorage, "fatal": c.IsFatal}

	var rendered *renderedError
	if !errors.As(err, &rendered) {
		fmt.Fprintln(os.Stderr, "Error:", c.Message)
	}
	if c.IsFatal {
		log.Error("chirp", "fatal", err, fields)
	}
	if c.IsAuth {
		fmt.Fprintln(os.Stderr, "Hint: the session cookies were rejected; copy fresh auth_token and ct0 values from a logged-in browser.")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(exitCode(err))
	}
}
