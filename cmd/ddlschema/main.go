package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tordrt/ddlschema"
	"github.com/tordrt/ddlschema/internal/config"
	"github.com/tordrt/ddlschema/internal/fingerprint"
	"github.com/tordrt/ddlschema/internal/formatter"
	"github.com/tordrt/ddlschema/internal/logger"
)

var (
	scriptFile      string
	dbURL           string
	mysqlURL        string
	sqlitePath      string
	outputFile      string
	outputDir       string
	tables          string
	excludeTables   string
	schemaName      string
	format          string
	splitThreshold  int
	strict          bool
	showFingerprint bool
	configFile      string
	debug           bool
)

var rootCmd = &cobra.Command{
	Use:   "ddlschema",
	Short: "Turn SQL DDL into an LLM-friendly schema",
	Long: `DDLSchema reads CREATE TABLE, CREATE VIEW and ALTER TABLE statements from a script file,
stdin, or a live PostgreSQL, MySQL or SQLite database and outputs the resulting schema in a
compact, token-efficient format optimized for LLMs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetGlobal(logger.New(os.Stderr, debug), debug)
	},
	RunE:         run,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&scriptFile, "file", "", "DDL script file (- for stdin)")
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection URL")
	rootCmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string")
	rootCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVar(&excludeTables, "exclude", "", "Tables to leave out (comma-separated, optional)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, markdown or json")
	rootCmd.Flags().IntVar(&splitThreshold, "split-threshold", 0, "Split into multiple files when table count exceeds this (requires --output-dir)")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first malformed statement instead of skipping it")
	rootCmd.Flags().BoolVar(&showFingerprint, "fingerprint", false, "Print the schema fingerprint to stderr")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Config file (default: $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

// source is where the DDL script comes from
type source struct {
	file string
	url  string
}

func (s source) read(ctx context.Context, opts *ddlschema.Options) (string, error) {
	if s.file != "" {
		return ddlschema.ReadScriptFile(s.file)
	}
	return ddlschema.ReadScript(ctx, s.url, opts)
}

// resolveSource picks the single script source from the flags, falling back
// to the database URL of the config file when no flag names one.
func resolveSource(cfg *config.Config) (source, error) {
	var sources []source
	if scriptFile != "" {
		sources = append(sources, source{file: scriptFile})
	}
	if dbURL != "" {
		url := dbURL
		if !strings.HasPrefix(url, "postgres://") && !strings.HasPrefix(url, "postgresql://") {
			url = "postgres://" + url
		}
		sources = append(sources, source{url: url})
	}
	if mysqlURL != "" {
		sources = append(sources, source{url: "mysql://" + strings.TrimPrefix(mysqlURL, "mysql://")})
	}
	if sqlitePath != "" {
		sources = append(sources, source{url: "sqlite://" + strings.TrimPrefix(sqlitePath, "sqlite://")})
	}

	if len(sources) > 1 {
		return source{}, fmt.Errorf("only one of --file, --db-url, --mysql-url, or --sqlite can be specified")
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	if cfg.Database.URL != "" {
		return source{url: cfg.Database.URL}, nil
	}
	return source{}, fmt.Errorf("one of --file, --db-url, --mysql-url, or --sqlite must be specified")
}

// applyConfig fills every flag the user did not set from cfg
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("format") {
		format = cfg.Format
	}
	if !flags.Changed("strict") {
		strict = cfg.Strict
	}
	if !flags.Changed("output") {
		outputFile = cfg.Output
	}
	if !flags.Changed("output-dir") {
		outputDir = cfg.OutputDir
	}
	if !flags.Changed("split-threshold") {
		splitThreshold = cfg.SplitThreshold
	}
	if !flags.Changed("tables") && len(cfg.Tables) > 0 {
		tables = strings.Join(cfg.Tables, ",")
	}
	if !flags.Changed("exclude") && len(cfg.ExcludeTables) > 0 {
		excludeTables = strings.Join(cfg.ExcludeTables, ",")
	}
	if !flags.Changed("schema") {
		schemaName = cfg.Database.Schema
	}
	if !flags.Changed("debug") && cfg.Debug {
		debug = true
		logger.SetGlobal(logger.New(os.Stderr, debug), debug)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, cfg)
	log := logger.Get()

	// Validate flag combinations
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}
	if _, err := formatter.New(format, io.Discard); err != nil {
		return err
	}

	src, err := resolveSource(cfg)
	if err != nil {
		return err
	}

	opts := &ddlschema.Options{
		Tables:        parseTableList(tables),
		ExcludeTables: parseTableList(excludeTables),
		SchemaName:    schemaName,
		Strict:        strict,
	}

	script, err := src.read(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	log.Debug("read script", "bytes", len(script))

	result, err := ddlschema.Parse(script, opts)
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}
	if len(result.Skipped) > 0 {
		log.Warn("some statements were skipped", "count", len(result.Skipped), "tables", len(result.Schema.Tables))
	}
	parsedSchema := result.Schema

	if showFingerprint {
		fp, err := fingerprint.Compute(parsedSchema)
		if err != nil {
			return fmt.Errorf("failed to compute fingerprint: %w", err)
		}
		fmt.Fprintf(os.Stderr, "fingerprint: %s\n", fp.Hex())
	}

	// Check if we should use multi-file output
	shouldSplit := outputDir != "" && (splitThreshold == 0 || len(parsedSchema.Tables) > splitThreshold)
	if shouldSplit {
		if err := ddlschema.FormatSchema(parsedSchema, &ddlschema.OutputOptions{
			OutputDir: outputDir,
			Format:    format,
		}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	// Single-file output
	var writer io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warn("failed to close output file", "error", err)
			}
		}()
		writer = f
	}

	if err := ddlschema.FormatSchema(parsedSchema, &ddlschema.OutputOptions{
		Writer: writer,
		Format: format,
	}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}

// parseTableList splits a comma-separated flag value, dropping empty entries
func parseTableList(value string) []string {
	if value == "" {
		return nil
	}

	var list []string
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			list = append(list, name)
		}
	}
	return list
}

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
