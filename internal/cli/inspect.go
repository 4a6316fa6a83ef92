package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wsdl-bundler/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a written bundle and report leftover schema locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "source: %s\n", result.Manifest.Source)
	fmt.Fprintf(out, "generated: %s\n", result.Manifest.GeneratedAt)
	fmt.Fprintln(out, "documents:")
	for _, doc := range result.Documents {
		fmt.Fprintf(out, "- %s: %d schemas, %d wsdl imports\n", doc.File, doc.Schemas, len(doc.WSDLImports))
		if len(doc.TargetNamespaces) > 0 {
			fmt.Fprintf(out, "  %s\n", strings.Join(doc.TargetNamespaces, ", "))
		}
		for _, location := range doc.Unresolved {
			fmt.Fprintf(out, "  unresolved: %s\n", location)
		}
	}
	fmt.Fprintf(out, "namespaces: %d\n", len(result.Namespaces()))
	fmt.Fprintf(out, "unresolved locations: %d\n", result.Unresolved)
	return nil
}
