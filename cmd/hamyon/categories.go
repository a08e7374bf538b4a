package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hamyonapp/hamyon/internal/cli"
	"github.com/hamyonapp/hamyon/internal/config"
	"github.com/hamyonapp/hamyon/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the category vocabulary",
		Long: `Show every category the quick-entry parser understands, with its
stable key, type, and display names. Useful for checking what a
replacement vocabulary file actually loaded.`,
		RunE: runCategories,
	}

	cmd.Flags().String("lang", "uz", "display language (uz, ru, en)")

	return cmd
}

func runCategories(cmd *cobra.Command, _ []string) error {
	langFlag, _ := cmd.Flags().GetString("lang")
	lang := model.Language(langFlag)
	if !lang.Valid() {
		return fmt.Errorf("invalid language %q (want uz, ru, or en)", langFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}

	fmt.Println(cli.FormatTitle("Categories"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tNAME")
	for _, cat := range vocab.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", cat.Key, cat.Type, cat.Label(lang))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println(cli.SubtleStyle.Render(strings.TrimSpace(fmt.Sprintf("\n%d categories", len(vocab.All())))))
	return nil
}
