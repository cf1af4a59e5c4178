package studio

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"sourcebook/internal/llm"
	"sourcebook/internal/logging"
	"sourcebook/internal/types"
)

// decodeArtifact turns a schema-constrained backend payload into the
// canonical contentData for its content type. Shape violations come back as
// *llm.InvalidFormatError so the orchestrator treats them on the same path as
// transport-level format failures.
func decodeArtifact(contentType types.ContentType, raw json.RawMessage) (json.RawMessage, error) {
	switch contentType {
	case types.ContentQuiz:
		return decodeQuiz(raw)
	case types.ContentFlashcards:
		return decodeFlashcards(raw)
	case types.ContentFAQ:
		return decodeList[types.FAQItem](raw, "faq", func(item types.FAQItem) error {
			if item.Question == "" || item.Answer == "" {
				return fmt.Errorf("faq item missing question or answer")
			}
			return nil
		})
	case types.ContentTimeline:
		return decodeList[types.TimelineEvent](raw, "timeline", func(ev types.TimelineEvent) error {
			if ev.Event == "" {
				return fmt.Errorf("timeline event missing event text")
			}
			return nil
		})
	case types.ContentPodcast:
		return decodeList[types.PodcastLine](raw, "podcast", func(line types.PodcastLine) error {
			if line.Speaker == "" || line.Line == "" {
				return fmt.Errorf("podcast line missing speaker or text")
			}
			return nil
		})
	case types.ContentMindMap:
		return decodeMindMap(raw)
	case types.ContentDebate:
		return decodeDebate(raw)
	default:
		return nil, fmt.Errorf("content type %s has no structured payload", contentType)
	}
}

func formatErr(reason string, err error) error {
	return &llm.InvalidFormatError{Provider: "backend", Reason: reason, Err: err}
}

func decodeQuiz(raw json.RawMessage) (json.RawMessage, error) {
	var questions []types.QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, formatErr("quiz payload does not decode", err)
	}
	if len(questions) == 0 {
		return nil, formatErr("quiz payload is empty", nil)
	}
	for i, q := range questions {
		if !contains(q.Options, q.CorrectAnswer) {
			return nil, formatErr(
				fmt.Sprintf("question %d: correct answer %q is not among the options", i+1, q.CorrectAnswer), nil)
		}
	}
	return json.Marshal(questions)
}

// decodeFlashcards assigns each card a freshly generated unique id; the
// backend payload carries none.
func decodeFlashcards(raw json.RawMessage) (json.RawMessage, error) {
	var cards []types.Flashcard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, formatErr("flashcards payload does not decode", err)
	}
	if len(cards) == 0 {
		return nil, formatErr("flashcards payload is empty", nil)
	}
	for i := range cards {
		if cards[i].Term == "" {
			return nil, formatErr(fmt.Sprintf("flashcard %d has no term", i+1), nil)
		}
		cards[i].ID = uuid.NewString()
	}
	return json.Marshal(cards)
}

func decodeList[T any](raw json.RawMessage, kind string, check func(T) error) (json.RawMessage, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, formatErr(kind+" payload does not decode", err)
	}
	if len(items) == 0 {
		return nil, formatErr(kind+" payload is empty", nil)
	}
	for _, item := range items {
		if err := check(item); err != nil {
			return nil, formatErr(err.Error(), nil)
		}
	}
	return json.Marshal(items)
}

// decodeMindMap enforces the depth ceiling: a tree deeper than the schema
// allows is truncated deterministically rather than rejected, so an
// over-eager backend still yields a usable map.
func decodeMindMap(raw json.RawMessage) (json.RawMessage, error) {
	var root types.MindMapNode
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, formatErr("mind map payload does not decode", err)
	}
	if root.Topic == "" {
		return nil, formatErr("mind map has no root topic", nil)
	}
	if depth := root.Depth(); depth > types.MindMapMaxDepth {
		logging.StudioDebug("Mind map depth %d exceeds ceiling %d; truncating", depth, types.MindMapMaxDepth)
		root = root.Truncate(types.MindMapMaxDepth)
	}
	return json.Marshal(root)
}

func decodeDebate(raw json.RawMessage) (json.RawMessage, error) {
	var debate types.Debate
	if err := json.Unmarshal(raw, &debate); err != nil {
		return nil, formatErr("debate payload does not decode", err)
	}
	if debate.ViewpointA.Title == "" || debate.ViewpointB.Title == "" {
		return nil, formatErr("debate is missing a viewpoint", nil)
	}
	return json.Marshal(debate)
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
