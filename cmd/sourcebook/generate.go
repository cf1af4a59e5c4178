package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sourcebook/internal/studio"
)

var generateNotebookFlag string

var generateCmd = &cobra.Command{
	Use:   "generate [kind]",
	Short: "Generate a study artifact from the notebook's sources",
	Long: `Generate a derivative artifact from the active notebook's sources.

Kinds: summary, quiz, flashcards, faq, timeline, podcast, ideas, critique,
mindmap, debate.

The request and its result (or error) are appended to the notebook's
conversation log. One request per notebook runs at a time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		intent := studio.Intent(strings.ToLower(args[0]))
		if intent == studio.IntentChat {
			return fmt.Errorf("use 'sourcebook ask' for free-form questions")
		}
		return runIntent(cmd.Context(), intent, "")
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a free-form question answered from the notebook's sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntent(cmd.Context(), studio.IntentChat, strings.Join(args, " "))
	},
}

func runIntent(ctx context.Context, intent studio.Intent, question string) error {
	nbID, err := activeNotebookID(generateNotebookFlag)
	if err != nil {
		return err
	}

	client, err := newGenClient(ctx)
	if err != nil {
		return err
	}

	fmt.Println(dimStyle.Render(fmt.Sprintf("Generating %s with %s…", intent, client.Model())))

	orch := newOrchestrator(client)
	msg, err := orch.Submit(ctx, nbID, intent, question)
	if err != nil {
		logger.Warn("Intent refused", zap.String("intent", string(intent)), zap.Error(err))
		return err
	}

	fmt.Println(renderMessage(msg))
	if msg.ContentType.Structured() {
		fmt.Println(dimStyle.Render(fmt.Sprintf("\nSave it: sourcebook saved add %s", shortID(msg.ID))))
	}
	return nil
}

func init() {
	generateCmd.Flags().StringVarP(&generateNotebookFlag, "notebook", "n", "", "notebook id (defaults to the active notebook)")
	askCmd.Flags().StringVarP(&generateNotebookFlag, "notebook", "n", "", "notebook id (defaults to the active notebook)")
}
