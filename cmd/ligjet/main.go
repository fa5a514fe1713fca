package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ligjet",
		Short: "Read, search and ask questions about law texts",
		Long: `ligjet turns scraped law files (JSON, text, Markdown, HTML, PDF,
DOCX, CSV) into clean paragraphs and articles, ranks articles against a
question and builds the context sent to the language model.

Tuning comes from the same environment variables and ligjet.yaml file
the server reads.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("json", false, "Write machine-readable JSON")

	root.AddCommand(paragraphsCmd())
	root.AddCommand(articlesCmd())
	root.AddCommand(contextCmd())
	root.AddCommand(askCmd())
	return root
}
