package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/coolbeans/norma/pkg/config"
	"github.com/coolbeans/norma/pkg/docx"
	"github.com/coolbeans/norma/pkg/logger"
	"github.com/coolbeans/norma/pkg/ontology"
	"github.com/coolbeans/norma/pkg/vocab"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "norma",
		Short: "Formatting requirement extractor",
		Long: `Norma reads the author guidelines of a journal or conference and
turns them into a machine-readable formatting profile.

It produces:
  - Per-section style requirements (margins, indents, spacing, font, size)
  - Value constraints (word, keyword and source counts)
  - Document-wide bounds (page format, volume, reference and image counts)
  - Property values read against a requirement ontology`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringP("lang", "l", "", "Bundle language (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log as JSON")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(readCmd())
	rootCmd.AddCommand(segmentCmd())
	rootCmd.AddCommand(ontologyCmd())
	rootCmd.AddCommand(vocabCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is the state every command builds from flags and the config file.
type env struct {
	cfg      config.Config
	logger   *log.Logger
	registry *vocab.DefaultRegistry
}

func newEnv(cmd *cobra.Command) (*env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	lang, _ := cmd.Flags().GetString("lang")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logJSON, _ := cmd.Flags().GetBool("log-json")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if lang != "" {
		cfg.Language = lang
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logJSON {
		cfg.Log.JSON = true
	}

	l := logger.Setup(cfg.Log.Level, cfg.Log.JSON)

	var registry *vocab.DefaultRegistry
	if cfg.BundleDir != "" {
		registry, err = vocab.NewRegistryWithDirectory(cfg.BundleDir, vocab.WithLogger(l))
	} else {
		registry, err = vocab.NewRegistry(vocab.WithLogger(l))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bundles: %w", err)
	}

	return &env{cfg: cfg, logger: l, registry: registry}, nil
}

func (e *env) bundle() (*vocab.Bundle, error) {
	b, ok := e.registry.Get(e.cfg.Language)
	if !ok {
		return nil, fmt.Errorf("unknown language %q (available: %s)",
			e.cfg.Language, strings.Join(e.registry.Languages(), ", "))
	}
	return b, nil
}

func (e *env) knowledgeBase() (*ontology.KnowledgeBase, error) {
	if e.cfg.OntologyFile == "" {
		return ontology.Default()
	}
	kb, err := ontology.LoadFile(e.cfg.OntologyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load ontology: %w", err)
	}
	return kb, nil
}

// loadParagraphs reads a DOCX file, or a text file with one paragraph per line.
func loadParagraphs(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		doc, err := docx.Open(path)
		if err != nil {
			return nil, err
		}
		return doc.Paragraphs(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer file.Close()

	var paragraphs []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		paragraphs = append(paragraphs, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return paragraphs, nil
}

func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}
