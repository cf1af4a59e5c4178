// Package types provides shared type definitions used across sourcebook packages.
// This package exists to break import cycles between store, llm, and studio.
// Types in this package should be foundational data structures with no complex dependencies.
package types

import (
	"encoding/json"
	"time"
)

// =============================================================================
// NOTEBOOK MODEL
// =============================================================================

// SourceType identifies how a source document entered the notebook.
type SourceType string

const (
	// SourceText is raw extracted text (pasted, file-ingested, etc.).
	SourceText SourceType = "text"
	// SourceURL is a source whose content was extracted from a web page.
	// Content holds the extracted page text; Title the canonical URL or page title.
	SourceURL SourceType = "url"
)

// Notebook is a named collection of sources, conversation history, and saved
// artifacts. Identity is the ID; a notebook is immutable once created.
type Notebook struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Source is a piece of ingested reference material backing generation
// requests. Sources are created by ingestion and never mutated.
type Source struct {
	ID         string     `json:"id"`
	NotebookID string     `json:"notebookId"`
	Type       SourceType `json:"type"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// =============================================================================
// CONVERSATION MODEL
// =============================================================================

// MessageRole distinguishes user input from model output in the log.
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// ContentType is the closed enumeration of conversation message payloads.
// It determines the shape of ConversationMessage.ContentData.
type ContentType string

const (
	ContentText       ContentType = "TEXT"
	ContentError      ContentType = "ERROR"
	ContentSummary    ContentType = "SUMMARY"
	ContentQuiz       ContentType = "QUIZ"
	ContentFlashcards ContentType = "FLASHCARDS"
	ContentFAQ        ContentType = "FAQ"
	ContentTimeline   ContentType = "TIMELINE"
	ContentPodcast    ContentType = "PODCAST"
	ContentIdeas      ContentType = "IDEAS"
	ContentCritique   ContentType = "CRITIQUE"
	ContentMindMap    ContentType = "MIND_MAP"
	ContentDebate     ContentType = "DEBATE"
)

// Structured reports whether the content type carries a machine-consumable
// payload in ContentData (as opposed to plain text in Text).
func (c ContentType) Structured() bool {
	switch c {
	case ContentQuiz, ContentFlashcards, ContentFAQ, ContentTimeline,
		ContentPodcast, ContentMindMap, ContentDebate:
		return true
	}
	return false
}

// ConversationMessage is one entry in a notebook's append-only conversation
// log. Ordering is insertion order. ContentData is nil for plain-text and
// error messages.
type ConversationMessage struct {
	ID          string          `json:"id"`
	NotebookID  string          `json:"notebookId"`
	Role        MessageRole     `json:"role"`
	Text        string          `json:"text,omitempty"`
	ContentType ContentType     `json:"contentType"`
	ContentData json.RawMessage `json:"contentData,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SavedItem is an artifact promoted out of the conversation log by explicit
// user action. Its lifecycle is independent of the message it was copied
// from; ContentData is a deep copy taken at promotion time.
type SavedItem struct {
	ID          string          `json:"id"`
	NotebookID  string          `json:"notebookId"`
	Title       string          `json:"title"`
	Type        ContentType     `json:"type"`
	ContentData json.RawMessage `json:"contentData"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// =============================================================================
// STRUCTURED ARTIFACT PAYLOADS
// =============================================================================

// Flashcard is a single term/definition pair. The ID is assigned by the
// orchestrator at storage time; the backend payload carries none.
type Flashcard struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// QuizQuestion is a multiple-choice question.
// Invariant: CorrectAnswer is a member of Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// FAQItem is a question/answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// TimelineEvent is a dated event with a description.
type TimelineEvent struct {
	Date        string `json:"date"`
	Event       string `json:"event"`
	Description string `json:"description"`
}

// PodcastLine is one turn of a two-host podcast script.
type PodcastLine struct {
	Speaker string `json:"speaker"`
	Line    string `json:"line"`
}

// MindMapNode is a finite tree of topics. The generation schema bounds the
// tree to MindMapMaxDepth levels; see studio for the truncation rule.
type MindMapNode struct {
	Topic    string        `json:"topic"`
	Children []MindMapNode `json:"children,omitempty"`
}

// MindMapMaxDepth is the schema ceiling for mind-map nesting. The backend
// cannot accept a self-referential schema, so the request schema is unrolled
// to exactly this many levels and deeper payloads are truncated.
const MindMapMaxDepth = 5

// Depth returns the number of levels in the tree rooted at n.
// A leaf node has depth 1.
func (n MindMapNode) Depth() int {
	max := 0
	for _, child := range n.Children {
		if d := child.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// Truncate returns a copy of the tree limited to maxDepth levels.
// Nodes at the final level keep their topic and drop their children.
func (n MindMapNode) Truncate(maxDepth int) MindMapNode {
	out := MindMapNode{Topic: n.Topic}
	if maxDepth <= 1 {
		return out
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, child.Truncate(maxDepth-1))
	}
	return out
}

// DebateViewpoint is one side of a generated debate.
type DebateViewpoint struct {
	Title     string   `json:"title"`
	Arguments []string `json:"arguments"`
}

// Debate holds two opposing viewpoints derived from the sources.
type Debate struct {
	ViewpointA DebateViewpoint `json:"viewpointA"`
	ViewpointB DebateViewpoint `json:"viewpointB"`
}
