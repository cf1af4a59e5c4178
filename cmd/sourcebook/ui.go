package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sourcebook/internal/types"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	answerStyle  = lipgloss.NewStyle().PaddingLeft(2)
	activeMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
)

// renderMessage prints a settled model message: plain text for text content,
// a type-specific rendering for structured artifacts.
func renderMessage(msg *types.ConversationMessage) string {
	if msg.ContentType == types.ContentError {
		return errorStyle.Render(msg.Text)
	}
	if !msg.ContentType.Structured() {
		return answerStyle.Render(msg.Text)
	}

	var sb strings.Builder
	switch msg.ContentType {
	case types.ContentQuiz:
		var questions []types.QuizQuestion
		if err := json.Unmarshal(msg.ContentData, &questions); err != nil {
			break
		}
		for i, q := range questions {
			fmt.Fprintf(&sb, "%s\n", titleStyle.Render(fmt.Sprintf("%d. %s", i+1, q.Question)))
			for j, opt := range q.Options {
				fmt.Fprintf(&sb, "   %c) %s\n", 'a'+j, opt)
			}
			fmt.Fprintf(&sb, "   %s\n\n", dimStyle.Render("Answer: "+q.CorrectAnswer))
		}
	case types.ContentFlashcards:
		var cards []types.Flashcard
		if err := json.Unmarshal(msg.ContentData, &cards); err != nil {
			break
		}
		for _, card := range cards {
			fmt.Fprintf(&sb, "%s\n    %s\n", titleStyle.Render(card.Term), card.Definition)
		}
	case types.ContentFAQ:
		var items []types.FAQItem
		if err := json.Unmarshal(msg.ContentData, &items); err != nil {
			break
		}
		for _, item := range items {
			fmt.Fprintf(&sb, "%s\n    %s\n\n", titleStyle.Render("Q: "+item.Question), item.Answer)
		}
	case types.ContentTimeline:
		var events []types.TimelineEvent
		if err := json.Unmarshal(msg.ContentData, &events); err != nil {
			break
		}
		for _, ev := range events {
			fmt.Fprintf(&sb, "%s  %s\n    %s\n", titleStyle.Render(ev.Date), ev.Event, dimStyle.Render(ev.Description))
		}
	case types.ContentPodcast:
		var lines []types.PodcastLine
		if err := json.Unmarshal(msg.ContentData, &lines); err != nil {
			break
		}
		for _, line := range lines {
			fmt.Fprintf(&sb, "%s %s\n", titleStyle.Render(line.Speaker+":"), line.Line)
		}
	case types.ContentMindMap:
		var root types.MindMapNode
		if err := json.Unmarshal(msg.ContentData, &root); err != nil {
			break
		}
		renderMindMap(&sb, root, 0)
	case types.ContentDebate:
		var debate types.Debate
		if err := json.Unmarshal(msg.ContentData, &debate); err != nil {
			break
		}
		renderViewpoint(&sb, debate.ViewpointA)
		sb.WriteString("\n")
		renderViewpoint(&sb, debate.ViewpointB)
	}

	if sb.Len() == 0 {
		// Unknown or unrenderable payload: show the raw JSON rather than
		// nothing.
		return answerStyle.Render(string(msg.ContentData))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderMindMap(sb *strings.Builder, node types.MindMapNode, depth int) {
	indent := strings.Repeat("  ", depth)
	if depth == 0 {
		fmt.Fprintf(sb, "%s\n", titleStyle.Render(node.Topic))
	} else {
		fmt.Fprintf(sb, "%s- %s\n", indent, node.Topic)
	}
	for _, child := range node.Children {
		renderMindMap(sb, child, depth+1)
	}
}

func renderViewpoint(sb *strings.Builder, vp types.DebateViewpoint) {
	fmt.Fprintf(sb, "%s\n", headerStyle.Render(vp.Title))
	for _, arg := range vp.Arguments {
		fmt.Fprintf(sb, "  - %s\n", arg)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
