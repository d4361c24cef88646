package main

import (
	"fmt"

	"github.com/c360studio/ontodoc/export"
	"github.com/c360studio/ontodoc/generator"
	"github.com/spf13/cobra"
)

func labelsCmd(global *globalFlags) *cobra.Command {
	var (
		prefixesURL  string
		prefixesFile string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "labels URI...",
		Short: "Print the resolved label of each URI",
		Example: `  ontodoc labels http://www.w3.org/ns/prov#Activity https://schema.org/birthDate
  ontodoc labels --format turtle http://purl.org/dc/terms/created`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := export.GetFormatInfo(export.Format(format)); !ok {
				return fmt.Errorf("unsupported format %q (expected one of %v)", format, export.Names())
			}

			logger := newLogger(global, cmd.ErrOrStderr())

			cfg, err := loadConfig(global, logger)
			if err != nil {
				return err
			}

			opts := generator.LabelOptions{
				PrefixesURL:  cfg.Prefixes.URL,
				PrefixesFile: cfg.Prefixes.File,
				Concurrency:  cfg.Output.Concurrency,
				Fetch:        cfg.FetchOptions(),
			}
			if cmd.Flags().Changed("prefixes-url") {
				opts.PrefixesURL = prefixesURL
				opts.PrefixesFile = ""
			}
			if cmd.Flags().Changed("prefixes-file") {
				opts.PrefixesFile = prefixesFile
			}

			labels, err := generator.ResolveLabels(cmd.Context(), opts, args, logger)
			if err != nil {
				return err
			}

			exporter := export.NewLabelExporter()
			exporter.Add(labels...)
			out, err := exporter.Export(export.Format(format))
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&prefixesURL, "prefixes-url", "", "URL of the JSON prefix registry")
	cmd.Flags().StringVar(&prefixesFile, "prefixes-file", "", "Local JSON prefix registry")
	cmd.Flags().StringVar(&format, "format", string(export.FormatText), "Output format (text, turtle, ntriples, jsonld)")

	return cmd
}
