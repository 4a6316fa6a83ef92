package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wsdl-bundler/internal/app"
)

type flattenOptions struct {
	Location     string
	Template     string
	OutputDir    string
	RootFilename string
	Fetch        fetchFlags
}

func newFlattenCommand() *cobra.Command {
	opts := flattenOptions{}
	cmd := &cobra.Command{
		Use:   "flatten [location]",
		Short: "Resolve every import and include of a WSDL into an output bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlatten(cmd.Context(), cmd, args, opts)
		},
	}
	bindFlattenFlags(cmd, &opts)
	return cmd
}

func bindFlattenFlags(cmd *cobra.Command, opts *flattenOptions) {
	cmd.Flags().StringVar(&opts.Location, "location", "", "WSDL file path or URL")
	cmd.Flags().StringVar(&opts.Template, "template", app.DefaultFilenameTemplate, "Filename template for imported WSDLs")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.RootFilename, "root-filename", "", "Filename of the top-level WSDL (default service.wsdl)")
	bindFetchFlags(cmd, &opts.Fetch)

	_ = viper.BindPFlag("location", cmd.Flags().Lookup("location"))
	_ = viper.BindPFlag("template", cmd.Flags().Lookup("template"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("root_filename", cmd.Flags().Lookup("root-filename"))
}

func flattenRequest(cmd *cobra.Command, args []string, opts flattenOptions) app.FlattenRequest {
	return app.FlattenRequest{
		Location:         locationArg(cmd, args, opts.Location),
		FilenameTemplate: resolveString(cmd, opts.Template, "template", "template"),
		OutputDir:        resolveString(cmd, opts.OutputDir, "output", "output"),
		RootFilename:     resolveString(cmd, opts.RootFilename, "root_filename", "root-filename"),
		Fetch:            resolveFetchOptions(cmd, opts.Fetch),
	}
}

func runFlatten(ctx context.Context, cmd *cobra.Command, args []string, opts flattenOptions) error {
	service := newAppService()
	result, err := service.Flatten(ctx, flattenRequest(cmd, args, opts))
	if err != nil {
		return err
	}
	printBundle(cmd, result)
	return nil
}

func printBundle(cmd *cobra.Command, result app.FlattenResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "flattened: %s\n", result.Source)
	fmt.Fprintf(out, "output: %s (%d files)\n", result.OutputDir, len(result.Files))
	for _, file := range result.Files {
		fmt.Fprintf(out, "- %s\n", file)
	}
}
