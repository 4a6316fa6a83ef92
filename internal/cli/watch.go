package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wsdl-bundler/internal/app"
)

type watchOptions struct {
	Flatten    flattenOptions
	DebounceMs int
}

func newWatchCommand() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [location]",
		Short: "Flatten a local WSDL and re-flatten whenever its sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args, opts)
		},
	}
	bindFlattenFlags(cmd, &opts.Flatten)
	cmd.Flags().IntVar(&opts.DebounceMs, "debounce-ms", 300, "Quiet period before re-flattening")
	_ = viper.BindPFlag("debounce_ms", cmd.Flags().Lookup("debounce-ms"))
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, args []string, opts watchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := newAppService()
	return service.Watch(ctx, app.WatchRequest{
		Flatten:    flattenRequest(cmd, args, opts.Flatten),
		DebounceMs: resolveInt(cmd, opts.DebounceMs, "debounce_ms", "debounce-ms"),
		OnFlatten: func(result app.FlattenResult, err error) {
			if err != nil {
				return
			}
			printBundle(cmd, result)
		},
	})
}
