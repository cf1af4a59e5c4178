package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Manage notebooks",
}

var notebookCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new notebook and make it active",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.Join(args, " ")
		nb, err := st.CreateNotebook(title)
		if err != nil {
			return err
		}
		if err := st.SetActiveNotebook(nb.ID); err != nil {
			return err
		}
		logger.Info("Created notebook", zap.String("id", nb.ID), zap.String("title", nb.Title))
		fmt.Println(successStyle.Render("Created notebook ") + titleStyle.Render(nb.Title) + dimStyle.Render(" ("+shortID(nb.ID)+")"))
		return nil
	},
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notebooks",
	RunE: func(cmd *cobra.Command, args []string) error {
		notebooks, err := st.ListNotebooks()
		if err != nil {
			return err
		}
		if len(notebooks) == 0 {
			fmt.Println(dimStyle.Render("No notebooks yet. Create one with 'sourcebook notebook create <title>'."))
			return nil
		}

		active, err := st.ActiveNotebook()
		if err != nil {
			return err
		}
		for _, nb := range notebooks {
			mark := " "
			if nb.ID == active {
				mark = activeMark
			}
			sources, err := st.ListSources(nb.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s  %s %s\n",
				mark,
				titleStyle.Render(nb.Title),
				dimStyle.Render(shortID(nb.ID)),
				dimStyle.Render(fmt.Sprintf("(%d sources, created %s)", len(sources), nb.CreatedAt.Format("2006-01-02"))))
		}
		return nil
	},
}

var notebookUseCmd = &cobra.Command{
	Use:   "use [notebook-id]",
	Short: "Set the active notebook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := resolveNotebook(args[0])
		if err != nil {
			return err
		}
		if err := st.SetActiveNotebook(nb.ID); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Active notebook: ") + titleStyle.Render(nb.Title))
		return nil
	},
}

var notebookDeleteCmd = &cobra.Command{
	Use:   "delete [notebook-id]",
	Short: "Delete a notebook and all its sources, messages, and saved items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := resolveNotebook(args[0])
		if err != nil {
			return err
		}
		if err := st.DeleteNotebook(nb.ID); err != nil {
			return err
		}
		logger.Info("Deleted notebook", zap.String("id", nb.ID))
		fmt.Println(successStyle.Render("Deleted notebook ") + titleStyle.Render(nb.Title))
		return nil
	},
}

// resolveNotebook accepts a full id or an unambiguous id prefix.
func resolveNotebook(idOrPrefix string) (nb *notebookRef, err error) {
	notebooks, err := st.ListNotebooks()
	if err != nil {
		return nil, err
	}
	var matches []notebookRef
	for _, candidate := range notebooks {
		if candidate.ID == idOrPrefix {
			return &notebookRef{ID: candidate.ID, Title: candidate.Title}, nil
		}
		if strings.HasPrefix(candidate.ID, idOrPrefix) {
			matches = append(matches, notebookRef{ID: candidate.ID, Title: candidate.Title})
		}
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, fmt.Errorf("no notebook matches %q", idOrPrefix)
	default:
		return nil, fmt.Errorf("notebook id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

type notebookRef struct {
	ID    string
	Title string
}

func init() {
	notebookCmd.AddCommand(notebookCreateCmd)
	notebookCmd.AddCommand(notebookListCmd)
	notebookCmd.AddCommand(notebookUseCmd)
	notebookCmd.AddCommand(notebookDeleteCmd)
}
