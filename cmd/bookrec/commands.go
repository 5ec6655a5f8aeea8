package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriscorrea/bookrec/internal/app"
	"github.com/chriscorrea/bookrec/internal/counter"
	"github.com/chriscorrea/bookrec/internal/recommend"
	"github.com/chriscorrea/bookrec/internal/server"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend QUERY",
	Short: "Recommend books similar to every book matching QUERY",
	Long: `Recommend books similar to the books QUERY matches.

By title, QUERY matches every title that starts with it (case-sensitive).
By author, QUERY matches every entry whose authors contain it (case-insensitive).
Scores are cosine similarities averaged over all matched books.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		byFlag, _ := cmd.Flags().GetString("by")
		by, err := recommend.ParseSearchMode(byFlag)
		if err != nil {
			return err
		}

		lib, cfg, err := openLibrary(cmd)
		if err != nil {
			return err
		}

		n := cfg.Recommendations
		if cmd.Flags().Changed("count") {
			n, _ = cmd.Flags().GetInt("count")
		}
		exclude, _ := cmd.Flags().GetBool("exclude-matches")

		query := joinArgs(args)
		result, err := lib.Engine.Query(recommend.Request{
			Query:          query,
			SearchBy:       by,
			N:              n,
			ExcludeMatches: exclude,
		})
		if err != nil {
			return explain(err, query, by)
		}
		return app.RenderRecommendations(os.Stdout, result, outputFormat(cmd))
	},
}

var byAuthorCmd = &cobra.Command{
	Use:   "by-author AUTHOR",
	Short: "List the titles whose authors field equals AUTHOR exactly",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		author := joinArgs(args)
		return app.RenderBooks(os.Stdout, author, lib.Engine.BooksByAuthor(author), outputFormat(cmd))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search KEYWORDS",
	Short: "Find titles and authors by keyword (BM25)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		if n < 1 {
			return fmt.Errorf("--count must be positive, got %d", n)
		}

		lib, _, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		query := joinArgs(args)
		return app.RenderHits(os.Stdout, query, lib.Index.Search(query, n), outputFormat(cmd))
	},
}

var showCmd = &cobra.Command{
	Use:   "show TITLE",
	Short: "Show the details of one book",
	Long: `Show the details of one book. TITLE is matched exactly first, then as a
title prefix; the first catalog entry wins.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, _, err := openLibrary(cmd)
		if err != nil {
			return err
		}

		title := joinArgs(args)
		i, ok := lib.Engine.IndexOfTitle(title)
		if !ok {
			matches, err := lib.Engine.Match(title, recommend.ByTitle)
			if err != nil {
				return explain(err, title, recommend.ByTitle)
			}
			i = matches[0]
		}

		entry, _ := lib.Engine.Entry(i)
		card, err := app.NewCard(entry)
		if err != nil {
			return err
		}
		return app.RenderCard(os.Stdout, card, outputFormat(cmd))
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the catalog and its fitted model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		countFlag, _ := cmd.Flags().GetString("count")
		method, err := counter.ParseMethod(countFlag)
		if err != nil {
			return err
		}

		lib, _, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		stats, err := lib.Stats(method)
		if err != nil {
			return err
		}
		return app.RenderStats(os.Stdout, stats, outputFormat(cmd))
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve recommendations over a JSON HTTP API",
	Long: `Serve recommendations over a JSON HTTP API.

Endpoints:
  GET /api/v1/recommendations?q=QUERY&by=title|author&n=10&exclude_matches=false
  GET /api/v1/authors/{author}/books
  GET /api/v1/search?q=KEYWORDS&n=10
  GET /healthz
  GET /metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, cfg, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		srv := server.New(lib, cfg.Server, cfg.Recommendations)
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	recommendCmd.Flags().String("by", "title", "Match QUERY against title or author")
	recommendCmd.Flags().IntP("count", "n", recommend.DefaultRecommendations,
		fmt.Sprintf("Number of recommendations (%d-%d)", recommend.MinRecommendations, recommend.MaxRecommendations))
	recommendCmd.Flags().Bool("exclude-matches", false, "Leave the matched books out of the results")

	searchCmd.Flags().IntP("count", "n", recommend.DefaultRecommendations, "Maximum number of results")

	statsCmd.Flags().String("count", "tokens", "Measure documents in tokens, words, or characters")

	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
