package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wsdl-bundler/internal/app"
)

type fetchFlags struct {
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
	User         string
	APIKey       string
	Catalogs     []string
}

func bindFetchFlags(cmd *cobra.Command, opts *fetchFlags) {
	cmd.Flags().IntVar(&opts.TimeoutSec, "fetch-timeout", 60, "Per-document fetch timeout in seconds")
	cmd.Flags().IntVar(&opts.Retries, "fetch-retries", 3, "Retries for HTTP 5xx/429 responses")
	cmd.Flags().IntVar(&opts.RetryDelayMs, "fetch-retry-delay-ms", 200, "Initial retry delay in milliseconds")
	cmd.Flags().StringVar(&opts.User, "fetch-user", "", "HTTP basic auth user")
	cmd.Flags().StringVar(&opts.APIKey, "fetch-api-key", "", "HTTP basic auth password or API key")
	cmd.Flags().StringSliceVar(&opts.Catalogs, "catalog", nil, "Catalog files rewriting locations to local mirrors")

	_ = viper.BindPFlag("fetch_timeout", cmd.Flags().Lookup("fetch-timeout"))
	_ = viper.BindPFlag("fetch_retries", cmd.Flags().Lookup("fetch-retries"))
	_ = viper.BindPFlag("fetch_retry_delay_ms", cmd.Flags().Lookup("fetch-retry-delay-ms"))
	_ = viper.BindPFlag("fetch_user", cmd.Flags().Lookup("fetch-user"))
	_ = viper.BindPFlag("fetch_api_key", cmd.Flags().Lookup("fetch-api-key"))
	_ = viper.BindPFlag("catalogs", cmd.Flags().Lookup("catalog"))
}

func resolveFetchOptions(cmd *cobra.Command, opts fetchFlags) app.FetchOptions {
	return app.FetchOptions{
		TimeoutSec:   resolveInt(cmd, opts.TimeoutSec, "fetch_timeout", "fetch-timeout"),
		Retries:      resolveInt(cmd, opts.Retries, "fetch_retries", "fetch-retries"),
		RetryDelayMs: resolveInt(cmd, opts.RetryDelayMs, "fetch_retry_delay_ms", "fetch-retry-delay-ms"),
		User:         resolveString(cmd, opts.User, "fetch_user", "fetch-user"),
		APIKey:       resolveString(cmd, opts.APIKey, "fetch_api_key", "fetch-api-key"),
		Catalogs:     resolveStrings(cmd, opts.Catalogs, "catalogs", "catalog"),
	}
}

// locationArg prefers the positional argument over the location key.
func locationArg(cmd *cobra.Command, args []string, value string) string {
	if len(args) > 0 {
		return args[0]
	}
	return resolveString(cmd, value, "location", "location")
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
