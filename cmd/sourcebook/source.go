package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sourcebook/internal/ingest"
	"sourcebook/internal/types"
)

var sourceNotebookFlag string

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage a notebook's sources",
}

var sourceAddTextCmd = &cobra.Command{
	Use:   "add-text [title] [content]",
	Short: "Add a raw text source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(sourceNotebookFlag)
		if err != nil {
			return err
		}
		src, err := st.AddSource(nbID, args[0], args[1], types.SourceText)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Added source ") + titleStyle.Render(src.Title) + dimStyle.Render(" ("+shortID(src.ID)+")"))
		return nil
	},
}

var sourceAddFileCmd = &cobra.Command{
	Use:   "add-file [path]",
	Short: "Add a plain-text file (.txt, .md) as a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(sourceNotebookFlag)
		if err != nil {
			return err
		}
		title, text, err := ingest.ReadFile(args[0])
		if err != nil {
			return err
		}
		src, err := st.AddSource(nbID, title, text, types.SourceText)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Added source ") + titleStyle.Render(src.Title) + dimStyle.Render(fmt.Sprintf(" (%d chars)", len(text))))
		return nil
	},
}

var sourceAddURLCmd = &cobra.Command{
	Use:   "add-url [url]",
	Short: "Fetch a web page and add its extracted text as a source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(sourceNotebookFlag)
		if err != nil {
			return err
		}
		url := args[0]
		title, text, err := fetcher.FetchAndExtract(context.Background(), url)
		if err != nil {
			// Ingestion failures never touch notebook state; report and let
			// the user retry.
			logger.Warn("URL ingestion failed", zap.String("url", url), zap.Error(err))
			return err
		}
		src, err := st.AddSource(nbID, title, text, types.SourceURL)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Added source ") + titleStyle.Render(src.Title) + dimStyle.Render(fmt.Sprintf(" (%d chars extracted)", len(text))))
		return nil
	},
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notebook's sources in insertion order",
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(sourceNotebookFlag)
		if err != nil {
			return err
		}
		sources, err := st.ListSources(nbID)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			fmt.Println(dimStyle.Render("No sources in this notebook."))
			return nil
		}
		for i, src := range sources {
			preview := src.Content
			if len(preview) > 60 {
				preview = preview[:60] + "…"
			}
			preview = strings.ReplaceAll(preview, "\n", " ")
			fmt.Printf("%d. %s %s\n   %s\n",
				i+1,
				titleStyle.Render(src.Title),
				dimStyle.Render(fmt.Sprintf("[%s, %s]", src.Type, shortID(src.ID))),
				dimStyle.Render(preview))
		}
		return nil
	},
}

func init() {
	sourceCmd.PersistentFlags().StringVarP(&sourceNotebookFlag, "notebook", "n", "", "notebook id (defaults to the active notebook)")
	sourceCmd.AddCommand(sourceAddTextCmd)
	sourceCmd.AddCommand(sourceAddFileCmd)
	sourceCmd.AddCommand(sourceAddURLCmd)
	sourceCmd.AddCommand(sourceListCmd)
}
