package studio

import (
	"fmt"

	"sourcebook/internal/types"
)

// Intent names one generation task from the closed catalogue. Every intent
// maps to one instruction template, one result content type, and (for
// structured artifacts) one fixed response schema. Adding an artifact kind
// means adding one catalogue entry.
type Intent string

const (
	IntentChat       Intent = "chat"
	IntentSummary    Intent = "summary"
	IntentQuiz       Intent = "quiz"
	IntentFlashcards Intent = "flashcards"
	IntentFAQ        Intent = "faq"
	IntentTimeline   Intent = "timeline"
	IntentPodcast    Intent = "podcast"
	IntentIdeas      Intent = "ideas"
	IntentCritique   Intent = "critique"
	IntentMindMap    Intent = "mindmap"
	IntentDebate     Intent = "debate"
)

// Intents returns the catalogue in a stable display order.
func Intents() []Intent {
	return []Intent{
		IntentChat, IntentSummary, IntentQuiz, IntentFlashcards, IntentFAQ,
		IntentTimeline, IntentPodcast, IntentIdeas, IntentCritique,
		IntentMindMap, IntentDebate,
	}
}

type intentSpec struct {
	contentType types.ContentType
	// userText is the canonical user-message phrase logged for the intent.
	// Chat logs the user's own question instead.
	userText    string
	instruction string
	// schema is nil for free-text intents.
	schema map[string]interface{}
}

var intentCatalogue = map[Intent]intentSpec{
	IntentChat: {
		contentType: types.ContentText,
		instruction: "You are a research assistant. Answer the user's question using ONLY the provided sources. When you draw on a source, cite it by its number, e.g. [1]. If the sources do not contain the answer, say so plainly.",
	},
	IntentSummary: {
		contentType: types.ContentSummary,
		userText:    "Summarize the sources",
		instruction: "Write a concise summary of the provided sources. Cover the key points of every source, keep the summary under 400 words, and do not introduce facts that are not in the sources.",
	},
	IntentQuiz: {
		contentType: types.ContentQuiz,
		userText:    "Generate a quiz",
		instruction: "Create a multiple-choice quiz of 5 to 10 questions testing understanding of the provided sources. Each question has exactly 4 options, and correctAnswer must be one of the options, copied verbatim.",
		schema:      quizSchema(),
	},
	IntentFlashcards: {
		contentType: types.ContentFlashcards,
		userText:    "Generate flashcards",
		instruction: "Create 8 to 15 flashcards from the provided sources. Each card pairs a key term or concept with a short, self-contained definition.",
		schema:      flashcardsSchema(),
	},
	IntentFAQ: {
		contentType: types.ContentFAQ,
		userText:    "Generate an FAQ",
		instruction: "Write a frequently-asked-questions list for the provided sources: 5 to 10 questions a newcomer would ask, each with a clear answer grounded in the sources.",
		schema:      faqSchema(),
	},
	IntentTimeline: {
		contentType: types.ContentTimeline,
		userText:    "Generate a timeline",
		instruction: "Extract the chronological events described in the provided sources as a timeline. Use the dates given in the sources; if a source gives only a year or era, use that. Order events from earliest to latest.",
		schema:      timelineSchema(),
	},
	IntentPodcast: {
		contentType: types.ContentPodcast,
		userText:    "Generate a podcast script",
		instruction: "Write a short two-host podcast script discussing the provided sources. The hosts are named Alex and Sam. Alternate speakers naturally, keep it conversational, and cover the main ideas in 20 to 40 lines.",
		schema:      podcastSchema(),
	},
	IntentIdeas: {
		contentType: types.ContentIdeas,
		userText:    "Suggest ideas",
		instruction: "Propose follow-up ideas grounded in the provided sources: open questions worth exploring, related topics to research next, and practical applications. Present them as a short, readable list.",
	},
	IntentCritique: {
		contentType: types.ContentCritique,
		userText:    "Critique the sources",
		instruction: "Critically evaluate the provided sources. Point out unsupported claims, internal contradictions, missing context, and potential bias. Be specific and cite source numbers.",
	},
	IntentMindMap: {
		contentType: types.ContentMindMap,
		userText:    "Generate a mind map",
		instruction: fmt.Sprintf("Organize the provided sources into a mind map: one central topic with nested subtopics, at most %d levels deep. Keep topic labels short.", types.MindMapMaxDepth),
		schema:      mindMapSchema(),
	},
	IntentDebate: {
		contentType: types.ContentDebate,
		userText:    "Generate a debate",
		instruction: "Identify the most contested question raised by the provided sources and present two opposing viewpoints on it. Give each viewpoint a title and 3 to 5 supporting arguments drawn from or reacting to the sources.",
		schema:      debateSchema(),
	},
}
