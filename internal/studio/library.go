package studio

import (
	"sourcebook/internal/store"
	"sourcebook/internal/types"
)

// Library promotes conversation artifacts into a notebook's durable saved
// collection and manages their independent lifecycle.
type Library struct {
	store *store.LocalStore
}

// NewLibrary creates a saved-items library over the given store.
func NewLibrary(s *store.LocalStore) *Library {
	return &Library{store: s}
}

// Save promotes the payload of a conversation message into the saved items
// collection. The payload is deep-copied at promotion time; the saved item's
// lifecycle is independent of the message it came from. Only model messages
// with a structured payload can be promoted.
func (l *Library) Save(notebookID, messageID, title string) (*types.SavedItem, error) {
	messages, err := l.store.Messages(notebookID)
	if err != nil {
		return nil, err
	}

	var msg *types.ConversationMessage
	for i := range messages {
		if messages[i].ID == messageID {
			msg = &messages[i]
			break
		}
	}
	if msg == nil {
		return nil, &ValidationError{Reason: "message not found in this notebook"}
	}
	if msg.Role != types.RoleModel || !msg.ContentType.Structured() || len(msg.ContentData) == 0 {
		return nil, &ValidationError{Reason: "message has no saveable artifact"}
	}

	if title == "" {
		title = defaultItemTitle(msg.ContentType)
	}
	return l.store.SaveItem(notebookID, title, msg.ContentType, msg.ContentData)
}

// Items returns a notebook's saved items in creation order.
func (l *Library) Items(notebookID string) ([]types.SavedItem, error) {
	return l.store.SavedItems(notebookID)
}

// Delete removes a saved item by id. Deleting an absent id is a no-op.
func (l *Library) Delete(notebookID, itemID string) error {
	return l.store.DeleteSavedItem(notebookID, itemID)
}

func defaultItemTitle(contentType types.ContentType) string {
	switch contentType {
	case types.ContentQuiz:
		return "Quiz"
	case types.ContentFlashcards:
		return "Flashcards"
	case types.ContentFAQ:
		return "FAQ"
	case types.ContentTimeline:
		return "Timeline"
	case types.ContentPodcast:
		return "Podcast Script"
	case types.ContentMindMap:
		return "Mind Map"
	case types.ContentDebate:
		return "Debate"
	default:
		return "Saved Item"
	}
}
