package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sourcebook/internal/types"
)

var historyNotebookFlag string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the notebook's conversation log",
	RunE: func(cmd *cobra.Command, args []string) error {
		nbID, err := activeNotebookID(historyNotebookFlag)
		if err != nil {
			return err
		}
		messages, err := st.Messages(nbID)
		if err != nil {
			return err
		}
		if len(messages) == 0 {
			fmt.Println(dimStyle.Render("No conversation yet."))
			return nil
		}
		for i := range messages {
			msg := &messages[i]
			label := "you"
			if msg.Role == types.RoleModel {
				label = string(msg.ContentType)
			}
			fmt.Printf("%s %s\n", headerStyle.Render(label), dimStyle.Render(shortID(msg.ID)))
			if msg.Role == types.RoleUser {
				fmt.Println(answerStyle.Render(msg.Text))
			} else {
				fmt.Println(renderMessage(msg))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyNotebookFlag, "notebook", "n", "", "notebook id (defaults to the active notebook)")
	rootCmd.AddCommand(historyCmd)
}
