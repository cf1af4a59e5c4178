package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"sourcebook/internal/llm"
	"sourcebook/internal/store"
	"sourcebook/internal/types"
)

func TestMain(m *testing.M) {
	// go.opencensus.io starts a background stats worker in its package init;
	// it is a transitive dependency artifact, not a leak from this package.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// stubClient is a scriptable generation backend.
type stubClient struct {
	textFn func(ctx context.Context, system, user string) (string, error)
	jsonFn func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error)
	calls  atomic.Int32
}

func (s *stubClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	s.calls.Add(1)
	if s.textFn == nil {
		return "", fmt.Errorf("unexpected GenerateText call")
	}
	return s.textFn(ctx, system, user)
}

func (s *stubClient) GenerateJSON(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
	s.calls.Add(1)
	if s.jsonFn == nil {
		return nil, fmt.Errorf("unexpected GenerateJSON call")
	}
	return s.jsonFn(ctx, system, user, schema)
}

func (s *stubClient) Model() string { return "stub" }

func newTestOrchestrator(t *testing.T, client llm.Client) (*Orchestrator, *store.LocalStore, string) {
	t.Helper()
	s, err := store.NewLocalStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	nb, err := s.CreateNotebook("test")
	require.NoError(t, err)
	_, err = s.AddSource(nb.ID, "Doc", "Paris is the capital of France.", types.SourceText)
	require.NoError(t, err)

	return NewOrchestrator(s, client, 5*time.Second), s, nb.ID
}

func TestSubmitChatWithoutSources(t *testing.T) {
	client := &stubClient{}
	s, err := store.NewLocalStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	nb, err := s.CreateNotebook("empty")
	require.NoError(t, err)

	orch := NewOrchestrator(s, client, 5*time.Second)
	_, err = orch.Submit(context.Background(), nb.ID, IntentChat, "what is this about?")

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, client.calls.Load(), "backend must not be called")

	messages, err := s.Messages(nb.ID)
	require.NoError(t, err)
	assert.Empty(t, messages, "refused intent must leave the log unchanged")
}

func TestSubmitChatEmptyQuestion(t *testing.T) {
	client := &stubClient{}
	orch, s, nbID := newTestOrchestrator(t, client)

	_, err := orch.Submit(context.Background(), nbID, IntentChat, "   ")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	messages, _ := s.Messages(nbID)
	assert.Empty(t, messages)
}

func TestSubmitUnknownIntent(t *testing.T) {
	client := &stubClient{}
	orch, _, nbID := newTestOrchestrator(t, client)

	_, err := orch.Submit(context.Background(), nbID, Intent("haiku"), "")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestSubmitChatSuccess(t *testing.T) {
	var gotUser string
	client := &stubClient{
		textFn: func(ctx context.Context, system, user string) (string, error) {
			gotUser = user
			return "Paris is the capital. [1]", nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)

	msg, err := orch.Submit(context.Background(), nbID, IntentChat, "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, types.RoleModel, msg.Role)
	assert.Equal(t, types.ContentText, msg.ContentType)
	assert.Equal(t, "Paris is the capital. [1]", msg.Text)

	// The source payload is numbered in insertion order and carries the
	// question.
	assert.Contains(t, gotUser, "--- SOURCE 1: Doc ---")
	assert.Contains(t, gotUser, "Paris is the capital of France.")
	assert.Contains(t, gotUser, "QUESTION: What is the capital of France?")

	messages, err := s.Messages(nbID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, types.RoleUser, messages[0].Role)
	assert.Equal(t, "What is the capital of France?", messages[0].Text)
	assert.Equal(t, types.RoleModel, messages[1].Role)
}

func TestSubmitQuizSuccess(t *testing.T) {
	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			return json.RawMessage(`[{"question":"Capital of France?","options":["Paris","Lyon","Nice","Lille"],"correctAnswer":"Paris"}]`), nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)

	msg, err := orch.Submit(context.Background(), nbID, IntentQuiz, "")
	require.NoError(t, err)
	assert.Equal(t, types.ContentQuiz, msg.ContentType)

	var questions []types.QuizQuestion
	require.NoError(t, json.Unmarshal(msg.ContentData, &questions))
	require.Len(t, questions, 1)
	assert.Contains(t, questions[0].Options, questions[0].CorrectAnswer)

	messages, _ := s.Messages(nbID)
	require.Len(t, messages, 2)
	assert.Equal(t, "Generate a quiz", messages[0].Text)
}

func TestSubmitQuizAnswerNotInOptions(t *testing.T) {
	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			return json.RawMessage(`[{"question":"Capital?","options":["Lyon","Nice"],"correctAnswer":"Paris"}]`), nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)

	msg, err := orch.Submit(context.Background(), nbID, IntentQuiz, "")
	require.NoError(t, err)
	assert.Equal(t, types.ContentError, msg.ContentType)
	assert.Empty(t, msg.ContentData)

	// Exactly user + error, no structured message.
	messages, _ := s.Messages(nbID)
	require.Len(t, messages, 2)
	assert.Equal(t, types.ContentError, messages[1].ContentType)
}

func TestSubmitStructuredMalformedPayload(t *testing.T) {
	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			return nil, &llm.InvalidFormatError{Provider: "stub", Reason: "not json"}
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)

	before, _ := s.MessageCount(nbID)
	msg, err := orch.Submit(context.Background(), nbID, IntentFAQ, "")
	require.NoError(t, err)
	assert.Equal(t, types.ContentError, msg.ContentType)

	after, _ := s.MessageCount(nbID)
	assert.Equal(t, before+2, after, "log grows by exactly user + error message")
}

func TestSubmitGenerationErrorDoesNotLeak(t *testing.T) {
	client := &stubClient{
		textFn: func(ctx context.Context, system, user string) (string, error) {
			return "", &llm.GenerationError{Provider: "stub", Status: 500, Message: "secret-internal-url key=abc123"}
		},
	}
	orch, _, nbID := newTestOrchestrator(t, client)

	msg, err := orch.Submit(context.Background(), nbID, IntentSummary, "")
	require.NoError(t, err)
	assert.Equal(t, types.ContentError, msg.ContentType)
	assert.NotContains(t, msg.Text, "abc123", "raw backend error must not reach the log")
	assert.NotContains(t, msg.Text, "secret-internal-url")
}

func TestSubmitFlashcardsAssignsFreshIDs(t *testing.T) {
	const k = 4
	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			cards := make([]map[string]string, k)
			for i := range cards {
				cards[i] = map[string]string{
					"term":       fmt.Sprintf("term-%d", i),
					"definition": fmt.Sprintf("definition-%d", i),
				}
			}
			b, _ := json.Marshal(cards)
			return b, nil
		},
	}
	orch, _, nbID := newTestOrchestrator(t, client)

	msg, err := orch.Submit(context.Background(), nbID, IntentFlashcards, "")
	require.NoError(t, err)

	var cards []types.Flashcard
	require.NoError(t, json.Unmarshal(msg.ContentData, &cards))
	require.Len(t, cards, k)

	seen := make(map[string]bool)
	for _, card := range cards {
		assert.NotEmpty(t, card.ID)
		assert.False(t, seen[card.ID], "flashcard ids must be unique")
		seen[card.ID] = true
	}
}

func TestSubmitMindMapTruncatesDeepTree(t *testing.T) {
	// Six levels deep; the schema ceiling is five.
	deep := types.MindMapNode{Topic: "L1"}
	node := &deep
	for i := 2; i <= 6; i++ {
		node.Children = []types.MindMapNode{{Topic: fmt.Sprintf("L%d", i)}}
		node = &node.Children[0]
	}
	require.Equal(t, 6, deep.Depth())

	client := &stubClient{
		jsonFn: func(ctx context.Context, system, user string, schema map[string]interface{}) (json.RawMessage, error) {
			b, _ := json.Marshal(deep)
			return b, nil
		},
	}
	orch, _, nbID := newTestOrchestrator(t, client)

	msg, err := orch.Submit(context.Background(), nbID, IntentMindMap, "")
	require.NoError(t, err)
	assert.Equal(t, types.ContentMindMap, msg.ContentType)

	var got types.MindMapNode
	require.NoError(t, json.Unmarshal(msg.ContentData, &got))
	assert.Equal(t, types.MindMapMaxDepth, got.Depth())
}

func TestSubmitSingleFlightPerNotebook(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 3)
	client := &stubClient{
		textFn: func(ctx context.Context, system, user string) (string, error) {
			started <- struct{}{}
			<-release
			return "done", nil
		},
	}
	orch, s, nbID := newTestOrchestrator(t, client)

	other, err := s.CreateNotebook("other")
	require.NoError(t, err)
	_, err = s.AddSource(other.ID, "Doc2", "content", types.SourceText)
	require.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := orch.Submit(context.Background(), nbID, IntentSummary, "")
		firstDone <- err
	}()
	<-started

	// Same notebook: rejected while the first request is in flight.
	_, err = orch.Submit(context.Background(), nbID, IntentSummary, "")
	assert.ErrorIs(t, err, ErrBusy)

	// Different notebook: its own gate, proceeds.
	otherClientDone := make(chan error, 1)
	go func() {
		_, err := orch.Submit(context.Background(), other.ID, IntentChat, "q")
		otherClientDone <- err
	}()
	// That call blocks on the same stub; release both.
	close(release)
	require.NoError(t, <-firstDone)
	require.NoError(t, <-otherClientDone)

	// Gate released after settle: same notebook accepts again.
	_, err = orch.Submit(context.Background(), nbID, IntentSummary, "")
	require.NoError(t, err)
}

func TestSubmitUnknownNotebook(t *testing.T) {
	client := &stubClient{}
	orch, _, _ := newTestOrchestrator(t, client)

	_, err := orch.Submit(context.Background(), "missing", IntentSummary, "")
	assert.ErrorIs(t, err, store.ErrNotebookNotFound)
}

func TestSettleErrorTextTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"format", &llm.InvalidFormatError{Provider: "x", Reason: "r"}, "unexpected format"},
		{"generation", &llm.GenerationError{Provider: "x", Message: "m"}, "request to the model failed"},
		{"timeout", context.DeadlineExceeded, "timed out"},
		{"other", errors.New("boom"), "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, settleErrorText(tt.err), tt.want)
		})
	}
}
