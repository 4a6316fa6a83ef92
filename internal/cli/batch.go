package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wsdl-bundler/internal/app"
)

type batchOptions struct {
	Locations    []string
	Template     string
	OutputDir    string
	RootFilename string
	Workers      int
	Fetch        fetchFlags
}

func newBatchCommand() *cobra.Command {
	opts := batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch [location...]",
		Short: "Flatten several WSDLs concurrently, one bundle directory each",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Locations, "locations", nil, "WSDL file paths or URLs")
	cmd.Flags().StringVar(&opts.Template, "template", app.DefaultFilenameTemplate, "Filename template for imported WSDLs")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.RootFilename, "root-filename", "", "Filename of each top-level WSDL (default service.wsdl)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "Concurrent flatten workers")
	bindFetchFlags(cmd, &opts.Fetch)

	_ = viper.BindPFlag("locations", cmd.Flags().Lookup("locations"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	return cmd
}

func runBatch(ctx context.Context, cmd *cobra.Command, args []string, opts batchOptions) error {
	locations := args
	if len(locations) == 0 {
		locations = resolveStrings(cmd, opts.Locations, "locations", "locations")
	}
	service := newAppService()
	result, err := service.FlattenBatch(ctx, app.BatchRequest{
		Locations:        locations,
		FilenameTemplate: resolveString(cmd, opts.Template, "template", "template"),
		OutputDir:        resolveString(cmd, opts.OutputDir, "output", "output"),
		RootFilename:     resolveString(cmd, opts.RootFilename, "root_filename", "root-filename"),
		Workers:          resolveInt(cmd, opts.Workers, "workers", "workers"),
		Fetch:            resolveFetchOptions(cmd, opts.Fetch),
	})
	for _, bundle := range result.Bundles {
		printBundle(cmd, bundle)
	}
	if result.Failed > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "failed: %d\n", result.Failed)
	}
	return err
}
