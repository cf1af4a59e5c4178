package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sourcebook/internal/studio"
)

var (
	savedNotebookFlag string
	savedTitleFlag    string
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Manage the notebook's saved items library",
}

var savedAddCmd = &cobra.Command{
	Use:   "add [message-id]",
	Short: "Promote a generated artifact into the saved items library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(savedNotebookFlag)
		if err != nil {
			return err
		}
		msgID, err := resolveMessageID(nbID, args[0])
		if err != nil {
			return err
		}
		lib := studio.NewLibrary(st)
		item, err := lib.Save(nbID, msgID, savedTitleFlag)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Saved ") + titleStyle.Render(item.Title) + dimStyle.Render(" ("+shortID(item.ID)+")"))
		return nil
	},
}

var savedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notebook's saved items",
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(savedNotebookFlag)
		if err != nil {
			return err
		}
		items, err := studio.NewLibrary(st).Items(nbID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println(dimStyle.Render("No saved items in this notebook."))
			return nil
		}
		for _, item := range items {
			fmt.Printf("%s %s %s\n",
				titleStyle.Render(item.Title),
				dimStyle.Render("["+string(item.Type)+"]"),
				dimStyle.Render(shortID(item.ID)+" saved "+item.CreatedAt.Format("2006-01-02")))
		}
		return nil
	},
}

var savedDeleteCmd = &cobra.Command{
	Use:   "delete [item-id]",
	Short: "Delete a saved item (no-op if absent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(savedNotebookFlag)
		if err != nil {
			return err
		}
		itemID, err := resolveSavedItemID(nbID, args[0])
		if err != nil {
			return err
		}
		if err := studio.NewLibrary(st).Delete(nbID, itemID); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Deleted saved item ") + dimStyle.Render(shortID(itemID)))
		return nil
	},
}

// resolveMessageID accepts a full message id or an unambiguous prefix.
func resolveMessageID(notebookID, idOrPrefix string) (string, error) {
	messages, err := st.Messages(notebookID)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, msg := range messages {
		if msg.ID == idOrPrefix {
			return msg.ID, nil
		}
		if strings.HasPrefix(msg.ID, idOrPrefix) {
			matches = append(matches, msg.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no message matches %q", idOrPrefix)
	default:
		return "", fmt.Errorf("message id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

// resolveSavedItemID accepts a full item id or an unambiguous prefix. An
// unmatched prefix passes through untouched so delete keeps its no-op
// semantics for absent ids.
func resolveSavedItemID(notebookID, idOrPrefix string) (string, error) {
	items, err := studio.NewLibrary(st).Items(notebookID)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, item := range items {
		if item.ID == idOrPrefix {
			return item.ID, nil
		}
		if strings.HasPrefix(item.ID, idOrPrefix) {
			matches = append(matches, item.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return idOrPrefix, nil
	default:
		return "", fmt.Errorf("item id %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

func init() {
	savedCmd.PersistentFlags().StringVarP(&savedNotebookFlag, "notebook", "n", "", "notebook id (defaults to the active notebook)")
	savedAddCmd.Flags().StringVarP(&savedTitleFlag, "title", "t", "", "title for the saved item (defaults by artifact type)")
	savedCmd.AddCommand(savedAddCmd)
	savedCmd.AddCommand(savedListCmd)
	savedCmd.AddCommand(savedDeleteCmd)
}
