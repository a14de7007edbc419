package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/norma/pkg/ontology"
	"github.com/coolbeans/norma/pkg/query"
	"github.com/coolbeans/norma/pkg/reader"
	"github.com/coolbeans/norma/pkg/report"
	"github.com/coolbeans/norma/pkg/requirements"
	"github.com/coolbeans/norma/pkg/segment"
	"github.com/coolbeans/norma/pkg/store"
	"github.com/coolbeans/norma/pkg/vocab"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <source>",
		Short: "Extract a formatting profile",
		Long: `Extract the formatting profile of a guidelines document.

The source is a DOCX file or a text file with one paragraph per line.
The profile is written as JSON, validated against the record schema
unless --no-validate is given or the config disables validation.

Examples:
  norma extract guidelines.docx
  norma extract --lang en --output profile.json guidelines.docx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			noValidate, _ := cmd.Flags().GetBool("no-validate")

			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			b, err := e.bundle()
			if err != nil {
				return err
			}
			paragraphs, err := loadParagraphs(args[0])
			if err != nil {
				return err
			}

			startTime := time.Now()
			rec, err := requirements.Extract(cmd.Context(), paragraphs, b, requirements.WithLogger(e.logger))
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			e.logger.Info("profile extracted", "source", args[0], "paragraphs", len(paragraphs),
				"language", b.Language, "elapsed", time.Since(startTime))

			validate := e.cfg.ValidateRecords && !noValidate
			if output != "" {
				if err := report.WriteFile(output, rec, validate); err != nil {
					return err
				}
				e.logger.Info("profile written", "path", output)
				return nil
			}

			data, err := report.Marshal(rec)
			if err != nil {
				return err
			}
			if validate {
				if err := report.Validate(data); err != nil {
					return err
				}
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().Bool("no-validate", false, "Skip record schema validation")

	return cmd
}

func readCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <source>",
		Short: "Read property values against the ontology",
		Long: `Read the values of every ontology property mentioned in a document.

Each property is matched by its labels and dispatched on its kind:
enumerations, quantities, permissions and labeled values.

Examples:
  norma read guidelines.docx
  norma read --format json guidelines.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")

			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			b, err := e.bundle()
			if err != nil {
				return err
			}
			kb, err := e.knowledgeBase()
			if err != nil {
				return err
			}
			paragraphs, err := loadParagraphs(args[0])
			if err != nil {
				return err
			}

			result, err := reader.New(kb, b, reader.WithLogger(e.logger)).Read(cmd.Context(), paragraphs)
			if err != nil {
				return fmt.Errorf("read failed: %w", err)
			}

			switch formatStr {
			case "json":
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			case "table":
				if len(result.Categories) == 0 {
					fmt.Println("No property values found.")
					return nil
				}
				for _, category := range result.Categories {
					fmt.Printf("%s\n", category.Category)
					for _, prop := range category.Properties {
						values := make([]string, len(prop.Values))
						for i, v := range prop.Values {
							values[i] = v.Value
						}
						fmt.Printf("  %-20s %-14s %s\n", prop.ID, prop.Kind, strings.Join(values, ", "))
					}
				}
			default:
				return fmt.Errorf("unknown format: %s (use table or json)", formatStr)
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	return cmd
}

func segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment <source>",
		Short: "Split a document into canonical sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showEmpty, _ := cmd.Flags().GetBool("all")
			width, _ := cmd.Flags().GetInt("width")

			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			b, err := e.bundle()
			if err != nil {
				return err
			}
			paragraphs, err := loadParagraphs(args[0])
			if err != nil {
				return err
			}

			buckets := segment.Segment(paragraphs, b)
			for _, name := range buckets.Names() {
				text := strings.TrimSpace(buckets.Get(name))
				if text == "" && !showEmpty {
					continue
				}
				fmt.Printf("%-16s %s\n", name, truncateString(text, width))
			}
			if headers := buckets.Headers(); len(headers) > 0 {
				fmt.Printf("\nHeaders: %s\n", strings.Join(headers, ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Show empty sections")
	cmd.Flags().IntP("width", "w", 80, "Maximum characters of section text to show")

	return cmd
}

func ontologyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ontology",
		Short: "Inspect the requirement ontology",
		Long: `Inspect the requirement ontology used by 'norma read'.

The embedded ontology is used unless the config names an ontology file.

Examples:
  norma ontology list
  norma ontology query "SELECT ?x WHERE { ?x :applicableTo :Font }"
  norma ontology export --output ontology.ttl`,
	}

	cmd.AddCommand(ontologyListCmd())
	cmd.AddCommand(ontologyQueryCmd())
	cmd.AddCommand(ontologyExportCmd())

	return cmd
}

func ontologyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List properties by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			kb, err := e.knowledgeBase()
			if err != nil {
				return err
			}

			for _, category := range ontology.Categories {
				props := kb.PropertiesOf(category)
				if len(props) == 0 {
					continue
				}
				fmt.Printf("%s (%d)\n", category, len(props))
				for _, prop := range props {
					fmt.Printf("  %-20s %-14s %s\n", prop.ID, prop.Kind, strings.Join(prop.Labels, " | "))
				}
			}
			return nil
		},
	}
}

func ontologyQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sparql-query>",
		Short: "Run a SPARQL SELECT query against the ontology",
		Long: `Run a SPARQL SELECT query against the ontology graph.

The empty prefix is bound to the document namespace unless the query
declares it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatStr, _ := cmd.Flags().GetString("format")

			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			kb, err := e.knowledgeBase()
			if err != nil {
				return err
			}

			queryStr := args[0]
			if !strings.Contains(queryStr, "PREFIX :") {
				queryStr = fmt.Sprintf("PREFIX : <%s> %s", store.NamespaceDocument, queryStr)
			}

			result, err := kb.Query(cmd.Context(), queryStr)
			if err != nil {
				return fmt.Errorf("query error: %w", err)
			}
			output, err := result.Format(query.OutputFormat(formatStr))
			if err != nil {
				return fmt.Errorf("format error: %w", err)
			}
			fmt.Print(output)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "table", "Output format (table, json, csv)")

	return cmd
}

func ontologyExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ontology graph as Turtle or N-Triples",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			format, _ := cmd.Flags().GetString("format")
			prefixFlags, _ := cmd.Flags().GetStringArray("prefix")

			prefixes, err := parsePrefixes(prefixFlags)
			if err != nil {
				return err
			}

			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			kb, err := e.knowledgeBase()
			if err != nil {
				return err
			}

			if output == "" {
				return kb.Export(os.Stdout, ontology.ExportFormat(format), prefixes...)
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer file.Close()
			if err := kb.Export(file, ontology.ExportFormat(format), prefixes...); err != nil {
				return fmt.Errorf("failed to export ontology: %w", err)
			}
			e.logger.Info("ontology exported", "path", output, "format", format, "triples", kb.Store().Count())
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringP("format", "f", string(ontology.FormatTurtle), "Output format (turtle, ntriples)")
	cmd.Flags().StringArray("prefix", nil, "Extra Turtle prefix as name=namespace (repeatable)")

	return cmd
}

// parsePrefixes reads "name=namespace" flag values.
func parsePrefixes(values []string) ([]store.PrefixMapping, error) {
	prefixes := make([]store.PrefixMapping, 0, len(values))
	for _, value := range values {
		name, namespace, ok := strings.Cut(value, "=")
		if !ok || namespace == "" {
			return nil, fmt.Errorf("invalid prefix %q, want name=namespace", value)
		}
		prefixes = append(prefixes, store.PrefixMapping{Prefix: name, Namespace: namespace})
	}
	return prefixes, nil
}

func vocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect vocabulary bundles",
		Long: `Inspect the vocabulary bundles that drive extraction.

Built-in bundles exist for "ru" and "en". YAML files in the configured
bundle directory override or add languages.

Examples:
  norma vocab show
  norma vocab show en
  norma vocab watch --config norma.yaml`,
	}

	cmd.AddCommand(vocabShowCmd())
	cmd.AddCommand(vocabWatchCmd())

	return cmd
}

func vocabShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [language]",
		Short: "Print a bundle as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				e.cfg.Language = args[0]
			}
			b, err := e.bundle()
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(b)
			if err != nil {
				return fmt.Errorf("failed to encode bundle: %w", err)
			}
			fmt.Printf("# languages: %s\n", strings.Join(e.registry.Languages(), ", "))
			fmt.Print(string(data))
			return nil
		},
	}
}

func vocabWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the bundle directory and report reloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if e.cfg.BundleDir == "" {
				return fmt.Errorf("no bundle directory configured (set bundle_dir in the config file)")
			}

			events := make(chan string, 16)
			e.registry.SetOnChange(func(event string, b *vocab.Bundle) {
				name := event
				if b != nil {
					name = event + " " + b.Language
				}
				select {
				case events <- name:
				default:
				}
			})
			if err := e.registry.Watch(); err != nil {
				return err
			}
			defer e.registry.StopWatch()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e.logger.Info("watching bundles", "dir", e.cfg.BundleDir, "languages", e.registry.Languages())
			return debounce(ctx, events, e.cfg.WatchDebounce, func(batch []string) {
				fmt.Printf("%s reloaded: %s (languages: %s)\n", time.Now().Format("15:04:05"),
					strings.Join(batch, ", "), strings.Join(e.registry.Languages(), ", "))
			})
		},
	}
}

// debounce collects events and calls flush once no event arrived for delay.
// It returns when ctx is done.
func debounce(ctx context.Context, events <-chan string, delay time.Duration, flush func([]string)) error {
	timer := time.NewTimer(delay)
	timer.Stop()
	defer timer.Stop()

	var pending []string
	for {
		select {
		case <-ctx.Done():
			if len(pending) > 0 {
				flush(pending)
			}
			return nil
		case ev := <-events:
			pending = append(pending, ev)
			timer.Reset(delay)
		case <-timer.C:
			if len(pending) > 0 {
				flush(pending)
				pending = nil
			}
		}
	}
}
