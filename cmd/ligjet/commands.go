package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/ligjet/internal/config"
	"github.com/dgallion1/ligjet/internal/lawdoc"
	"github.com/dgallion1/ligjet/internal/library"
	"github.com/dgallion1/ligjet/internal/rank"
	"github.com/dgallion1/ligjet/internal/relay"
)

// newGenerator builds the generation backend for the ask command.
var newGenerator = func(ctx context.Context, cfg config.Config) (relay.Generator, error) {
	return relay.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
}

func paragraphsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paragraphs FILE",
		Short: "Print the normalized paragraphs of a law file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			law, _, err := loadLaw(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return writeJSON(out, law.Paragraphs)
			}
			for i, p := range law.Paragraphs {
				fmt.Fprintf(out, "%4d  %s\n", i+1, p)
			}
			return nil
		},
	}
}

func articlesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "articles FILE",
		Short: "Print the articles of a law file",
		Long: `Print the articles of a law file. With --filter only articles whose
title or body contains the text (ignoring case) are shown.

Example:
  ligjet articles kodi-penal.json --filter "vepra penale"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, _ := cmd.Flags().GetString("filter")

			law, _, err := loadLaw(args[0])
			if err != nil {
				return err
			}
			items := lawdoc.Filter(law.Articles, filter)

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				if items == nil {
					items = []lawdoc.Article{}
				}
				return writeJSON(out, map[string]any{
					"title":      law.Title,
					"paragraphs": len(law.Paragraphs),
					"articles":   len(law.Articles),
					"shown":      len(items),
					"items":      items,
				})
			}

			fmt.Fprintf(out, "%s\nparagraphs: %d · articles: %d · shown: %d\n",
				law.Title, len(law.Paragraphs), len(law.Articles), len(items))
			for _, a := range items {
				fmt.Fprintf(out, "\n== %s [%s] ==\n%s\n", a.Title, a.ID, strings.Join(a.Body, "\n"))
			}
			return nil
		},
	}
	cmd.Flags().StringP("filter", "f", "", "Only show articles containing this text")
	return cmd
}

func contextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context FILE QUESTION",
		Short: "Print the ranked context a question would be sent with",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			law, cfg, err := loadLaw(args[0])
			if err != nil {
				return err
			}
			framed, selected := frame(law, cfg, args[1])

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return writeJSON(out, map[string]any{
					"context":  framed,
					"articles": articleIDs(selected),
				})
			}
			for _, sc := range selected {
				fmt.Fprintf(cmd.ErrOrStderr(), "%3d  %s\n", sc.Score, sc.Article.Title)
			}
			fmt.Fprintln(out, framed)
			return nil
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask FILE QUESTION",
		Short: "Ask the language model a question about a law file",
		Long: `Rank the law's articles against the question, frame them as context
and send both to Gemini. Requires GEMINI_API_KEY.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			law, cfg, err := loadLaw(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			gen, err := newGenerator(ctx, cfg)
			if err != nil {
				return fmt.Errorf("create generator: %w", err)
			}
			rl := relay.New(gen, cfg.Tuning.Labels(), cfg.RelayTimeout, slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))

			framed, selected := frame(law, cfg, args[1])
			text, err := rl.Chat(ctx, args[1], framed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonFlag(cmd) {
				return writeJSON(out, map[string]any{
					"text":     text,
					"articles": articleIDs(selected),
				})
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
}

// loadLaw reads configuration and parses a single law file.
func loadLaw(path string) (*library.Law, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, cfg, err
	}

	loader := library.NewLoader(library.NewStore(), cfg.Tuning.SegmentConfig(), 1, nil)
	law, _, err := loader.LoadFile(path)
	if err != nil {
		return nil, cfg, err
	}
	return law, cfg, nil
}

func frame(law *library.Law, cfg config.Config, question string) (string, []rank.Scored) {
	rc := cfg.Tuning.RankConfig()
	selected := rank.Select(law.Articles, question, rc)
	return relay.FrameContext(cfg.Tuning.Labels(), law.Title, law.Slug, rank.Context(selected, rc)), selected
}

func articleIDs(selected []rank.Scored) []string {
	ids := make([]string, 0, len(selected))
	for _, sc := range selected {
		ids = append(ids, sc.Article.ID)
	}
	return ids
}

func jsonFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
