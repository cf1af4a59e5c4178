package studio

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcebook/internal/types"
)

func TestLibrarySaveRoundTrip(t *testing.T) {
	payload := []types.FAQItem{
		{Question: "What is osmosis?", Answer: "Movement of water across a membrane."},
		{Question: "Where does it occur?", Answer: "In cells."},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			return raw, nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)
	lib := NewLibrary(s)

	msg, err := orch.Submit(context.Background(), nbID, IntentFAQ, "")
	require.NoError(t, err)

	item, err := lib.Save(nbID, msg.ID, "My FAQ")
	require.NoError(t, err)
	assert.Equal(t, nbID, item.NotebookID)
	assert.Equal(t, "My FAQ", item.Title)
	assert.Equal(t, types.ContentFAQ, item.Type)

	// Reading the saved copy back yields a payload deep-equal to the
	// original.
	items, err := lib.Items(nbID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var got []types.FAQItem
	require.NoError(t, json.Unmarshal(items[0].ContentData, &got))
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Errorf("saved payload mismatch (-want +got):\n%s", diff)
	}
}

func TestLibrarySaveDefaultTitle(t *testing.T) {
	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			return json.RawMessage(`[{"question":"Capital?","options":["Paris","Lyon"],"correctAnswer":"Paris"}]`), nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)
	lib := NewLibrary(s)

	msg, err := orch.Submit(context.Background(), nbID, IntentQuiz, "")
	require.NoError(t, err)

	item, err := lib.Save(nbID, msg.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Quiz", item.Title)
}

func TestLibrarySaveRejectsPlainMessages(t *testing.T) {
	client := &stubClient{
		textFn: func(ctx context.Context, system, user string) (string, error) {
			return "just text", nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)
	lib := NewLibrary(s)

	msg, err := orch.Submit(context.Background(), nbID, IntentChat, "question?")
	require.NoError(t, err)

	var valErr *ValidationError
	_, err = lib.Save(nbID, msg.ID, "t")
	require.ErrorAs(t, err, &valErr)

	// The user's own message is not promotable either.
	messages, _ := s.Messages(nbID)
	_, err = lib.Save(nbID, messages[0].ID, "t")
	require.ErrorAs(t, err, &valErr)

	// Unknown message id.
	_, err = lib.Save(nbID, "missing", "t")
	require.ErrorAs(t, err, &valErr)
}

func TestLibraryDeleteIdempotent(t *testing.T) {
	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			return json.RawMessage(`[{"term":"cell","definition":"basic unit of life"}]`), nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)
	lib := NewLibrary(s)

	msg, err := orch.Submit(context.Background(), nbID, IntentFlashcards, "")
	require.NoError(t, err)
	item, err := lib.Save(nbID, msg.ID, "Cards")
	require.NoError(t, err)

	require.NoError(t, lib.Delete(nbID, item.ID))
	require.NoError(t, lib.Delete(nbID, item.ID))
	require.NoError(t, lib.Delete(nbID, "never-existed"))

	items, err := lib.Items(nbID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func newTestOrchestratorWithTimeout(t *testing.T, client *stubClient, timeout time.Duration) (*Orchestrator, string) {
	t.Helper()
	orch, _, nbID := newTestOrchestrator(t, client)
	orch.timeout = timeout
	return orch, nbID
}

func TestSubmitTimesOut(t *testing.T) {
	client := &stubClient{
		textFn: func(ctx context.Context, system, user string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	orch, nbID := newTestOrchestratorWithTimeout(t, client, 20*time.Millisecond)

	msg, err := orch.Submit(context.Background(), nbID, IntentSummary, "")
	require.NoError(t, err)
	assert.Equal(t, types.ContentError, msg.ContentType)
	assert.Contains(t, msg.Text, "timed out")
}
