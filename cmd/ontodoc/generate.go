package main

import (
	"os/signal"
	"syscall"

	"github.com/c360studio/ontodoc/generator"
	"github.com/c360studio/ontodoc/render"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	ontologyURL  string
	templateFile string
	outputFile   string
	prefixesURL  string
	prefixesFile string
	format       string
	partials     string
	locale       string
	concurrency  int
	watch        bool
	metricsFile  string
}

func generateCmd(global *globalFlags) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate documentation for an ontology",
		Example: `  ontodoc generate --ontology-url https://example.org/cartoon.ttl --template docs.html.tmpl
  ontodoc generate --ontology-url https://example.org/cartoon.ttl --template docs.html.tmpl \
    --format markdown --output docs.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(global, cmd.ErrOrStderr())

			cfg, err := loadConfig(global, logger)
			if err != nil {
				return err
			}

			opts := generator.Options{
				OntologyURL:  flags.ontologyURL,
				TemplateFile: flags.templateFile,
				OutputFile:   flags.outputFile,
				PrefixesURL:  cfg.Prefixes.URL,
				PrefixesFile: cfg.Prefixes.File,
				Format:       render.Format(cfg.Output.Format),
				Partials:     cfg.Output.Partials,
				Locale:       cfg.Output.Locale,
				Concurrency:  cfg.Output.Concurrency,
				MetricsFile:  flags.metricsFile,
				Fetch:        cfg.FetchOptions(),
				Stdout:       cmd.OutOrStdout(),
			}

			// Flags win over every config layer.
			if cmd.Flags().Changed("prefixes-url") {
				opts.PrefixesURL = flags.prefixesURL
				opts.PrefixesFile = ""
			}
			if cmd.Flags().Changed("prefixes-file") {
				opts.PrefixesFile = flags.prefixesFile
			}
			if cmd.Flags().Changed("format") {
				opts.Format = render.Format(flags.format)
			}
			if cmd.Flags().Changed("partials") {
				opts.Partials = flags.partials
			}
			if cmd.Flags().Changed("locale") {
				opts.Locale = flags.locale
			}
			if cmd.Flags().Changed("concurrency") {
				opts.Concurrency = flags.concurrency
			}

			g, err := generator.New(opts, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if flags.watch {
				return g.Watch(ctx)
			}
			return g.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&flags.ontologyURL, "ontology-url", "", "URL of the ontology, pointing to a Turtle file")
	cmd.Flags().StringVar(&flags.templateFile, "template", "", "File containing the Go template")
	cmd.Flags().StringVarP(&flags.outputFile, "output", "o", "", "Write the document to this file instead of stdout")
	cmd.Flags().StringVar(&flags.prefixesURL, "prefixes-url", "", "URL of the JSON prefix registry")
	cmd.Flags().StringVar(&flags.prefixesFile, "prefixes-file", "", "Local JSON prefix registry")
	cmd.Flags().StringVar(&flags.format, "format", "html", "Output format (html, text, markdown, handlebars)")
	cmd.Flags().StringVar(&flags.partials, "partials", "", "Glob of partial templates, e.g. 'templates/**/*.tmpl'")
	cmd.Flags().StringVar(&flags.locale, "locale", "en", "Locale used to sort labels")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 4, "Parallel label lookups per element (1 = sequential)")
	cmd.Flags().BoolVar(&flags.watch, "watch", false, "Re-render whenever the template changes")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	_ = cmd.MarkFlagRequired("ontology-url")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
