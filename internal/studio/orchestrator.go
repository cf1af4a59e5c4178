package studio

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"sourcebook/internal/llm"
	"sourcebook/internal/logging"
	"sourcebook/internal/store"
	"sourcebook/internal/types"
)

// Orchestrator drives generation intents against the backend and reconciles
// every outcome into the notebook's conversation log. It holds no per-request
// state beyond the single-flight gates; all durable state lives in the store.
//
// Single-flight is scoped per notebook: one outstanding request per notebook,
// concurrent requests against different notebooks proceed independently.
// Cancellation of an in-flight request is not supported; every call runs to a
// settled success or error.
type Orchestrator struct {
	store   *store.LocalStore
	client  llm.Client
	timeout time.Duration

	mu    sync.Mutex
	gates map[string]*semaphore.Weighted
}

// NewOrchestrator creates an orchestrator over the given store and backend.
func NewOrchestrator(s *store.LocalStore, client llm.Client, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Orchestrator{
		store:   s,
		client:  client,
		timeout: timeout,
		gates:   make(map[string]*semaphore.Weighted),
	}
}

func (o *Orchestrator) gate(notebookID string) *semaphore.Weighted {
	o.mu.Lock()
	defer o.mu.Unlock()
	g, ok := o.gates[notebookID]
	if !ok {
		g = semaphore.NewWeighted(1)
		o.gates[notebookID] = g
	}
	return g
}

// Submit runs one intent to completion against a notebook. The user's message
// is appended before the backend call begins; the settled outcome (the
// artifact message, or a single ERROR message) is appended after, and the
// settled model message is returned.
//
// Backend failures do not come back as errors: they are reconciled into the
// returned ERROR message. Submit itself fails only on precondition violations
// (*ValidationError), a busy notebook (ErrBusy), or store faults.
func (o *Orchestrator) Submit(ctx context.Context, notebookID string, intent Intent, question string) (*types.ConversationMessage, error) {
	spec, ok := intentCatalogue[intent]
	if !ok {
		return nil, &ValidationError{Reason: "unknown intent " + string(intent)}
	}
	if intent == IntentChat && strings.TrimSpace(question) == "" {
		return nil, &ValidationError{Reason: "chat requires a question"}
	}

	// Preconditions are checked before anything touches the log, so a refused
	// intent leaves the conversation exactly as it was.
	if _, err := o.store.GetNotebook(notebookID); err != nil {
		return nil, err
	}
	sources, err := o.store.ListSources(notebookID)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, &ValidationError{Reason: "notebook has no sources; add at least one before generating"}
	}

	g := o.gate(notebookID)
	if !g.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer g.Release(1)

	userText := spec.userText
	if intent == IntentChat {
		userText = strings.TrimSpace(question)
	}
	if _, err := o.store.AppendMessage(notebookID, types.RoleUser, types.ContentText, userText, nil); err != nil {
		return nil, err
	}

	logging.Studio("Submitting %s intent for notebook %s (%d sources)", intent, notebookID, len(sources))
	startTime := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	text, data, genErr := o.generate(callCtx, spec, sources, question)
	if genErr != nil {
		logging.StudioError("%s intent failed after %v: %v", intent, time.Since(startTime), genErr)
		return o.store.AppendMessage(notebookID, types.RoleModel, types.ContentError, settleErrorText(genErr), nil)
	}

	logging.Studio("%s intent settled in %v", intent, time.Since(startTime))
	return o.store.AppendMessage(notebookID, types.RoleModel, spec.contentType, text, data)
}

// generate issues the single backend call for an intent and, for structured
// intents, decodes the payload into canonical contentData.
func (o *Orchestrator) generate(ctx context.Context, spec intentSpec, sources []types.Source, question string) (text string, data []byte, err error) {
	userPrompt := buildUserPrompt(sources, question)

	if spec.schema == nil {
		text, err = o.client.GenerateText(ctx, spec.instruction, userPrompt)
		return text, nil, err
	}

	raw, err := o.client.GenerateJSON(ctx, spec.instruction, userPrompt, spec.schema)
	if err != nil {
		return "", nil, err
	}
	decoded, err := decodeArtifact(spec.contentType, raw)
	if err != nil {
		return "", nil, err
	}
	return "", decoded, nil
}

// settleErrorText maps an internal failure to the human-readable message
// stored in the log. Raw backend errors carry URLs, keys, and payload
// fragments, so they never reach the conversation.
func settleErrorText(err error) string {
	var formatErr *llm.InvalidFormatError
	if errors.As(err, &formatErr) {
		return "The model returned a response in an unexpected format. Please try again."
	}
	var genErr *llm.GenerationError
	if errors.As(err, &genErr) {
		return "The request to the model failed. Please check your connection and try again."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Please try again."
	}
	return "Something went wrong while generating this content. Please try again."
}
