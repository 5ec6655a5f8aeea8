package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chriscorrea/bookrec/internal/app"
	"github.com/chriscorrea/bookrec/internal/config"
	"github.com/chriscorrea/bookrec/internal/recommend"
)

// setupLogger configures the default slog logger based on debug mode
func setupLogger(debug bool) {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// loadConfig layers flags the user explicitly set over file and env settings.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	overrides := map[string]any{}
	if cmd.Flags().Changed("catalog") {
		v, _ := cmd.Flags().GetString("catalog")
		overrides["catalog"] = v
	}
	if cmd.Flags().Changed("stem") {
		v, _ := cmd.Flags().GetBool("stem")
		overrides["stem"] = v
	}
	if cmd.Flags().Changed("addr") {
		v, _ := cmd.Flags().GetString("addr")
		overrides["server.addr"] = v
	}

	cfg, err := config.Load(path, overrides)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// openLibrary loads configuration and the catalog it names.
func openLibrary(cmd *cobra.Command) (*app.Library, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	lib, err := app.Open(cmd.Context(), cfg, os.Stderr, quiet)
	if err != nil {
		return nil, nil, err
	}
	return lib, cfg, nil
}

// outputFormat reads the mutually exclusive format flags.
func outputFormat(cmd *cobra.Command) app.OutputFormat {
	mdFlag, _ := cmd.Flags().GetBool("md")
	jsonFlag, _ := cmd.Flags().GetBool("json")
	switch {
	case mdFlag:
		return app.Markdown
	case jsonFlag:
		return app.JSON
	default:
		return app.Text
	}
}

// explain rewrites engine errors into messages meant for the command line.
func explain(err error, query string, by recommend.SearchMode) error {
	if errors.Is(err, recommend.ErrEmptyMatch) {
		return fmt.Errorf("no book %s matches %q; try 'bookrec search %s' to find one", matchPhrase(by), query, query)
	}
	return err
}

func matchPhrase(by recommend.SearchMode) string {
	if by == recommend.ByAuthor {
		return "author"
	}
	return "title"
}

var rootCmd = &cobra.Command{
	Use:   "bookrec",
	Short: "Content-based book recommendations",
	Long: `bookrec recommends books from a catalog by comparing their text (title,
description, authors, publisher, publication date and categories) with TF-IDF
weighting and cosine similarity.

The catalog is a CSV or XLSX file, an http(s) URL, or "-" for stdin.

Examples:
  bookrec recommend "The Hobbit"
  bookrec recommend --by author "Austen" -n 5
  bookrec search dragons
  bookrec serve --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		setupLogger(debug)
	},
}

// addPersistentFlags defines the flags shared by every command.
func addPersistentFlags(flags *pflag.FlagSet) {
	flags.String("catalog", config.DefaultCatalog, "Catalog path, URL, or - for stdin")
	flags.String("config", "", "YAML config file (default $"+config.PathEnvVar+")")
	flags.Bool("stem", false, "Reduce terms to their English stems before weighting")

	flags.Bool("md", false, "Output in Markdown format")
	flags.Bool("text", false, "Output in plain text format (default)")
	flags.Bool("json", false, "Output in JSON format")
	flags.BoolP("quiet", "q", false, "Suppress progress messages")
	flags.BoolP("debug", "D", false, "Enable debug logging")
	_ = flags.MarkHidden("debug")
}

func init() {
	addPersistentFlags(rootCmd.PersistentFlags())
	rootCmd.MarkFlagsMutuallyExclusive("md", "text", "json")

	rootCmd.AddCommand(recommendCmd, byAuthorCmd, searchCmd, showCmd, statsCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// joinArgs lets multi-word queries be passed without quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
