package studio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcebook/internal/llm"
	"sourcebook/internal/types"
)

func TestDecodeArtifactRejectsGarbage(t *testing.T) {
	structured := []types.ContentType{
		types.ContentQuiz, types.ContentFlashcards, types.ContentFAQ,
		types.ContentTimeline, types.ContentPodcast, types.ContentMindMap,
		types.ContentDebate,
	}
	for _, ct := range structured {
		t.Run(string(ct), func(t *testing.T) {
			_, err := decodeArtifact(ct, json.RawMessage(`"a bare string"`))
			var formatErr *llm.InvalidFormatError
			require.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestDecodeArtifactRejectsEmptyLists(t *testing.T) {
	for _, ct := range []types.ContentType{
		types.ContentQuiz, types.ContentFlashcards, types.ContentFAQ,
		types.ContentTimeline, types.ContentPodcast,
	} {
		t.Run(string(ct), func(t *testing.T) {
			_, err := decodeArtifact(ct, json.RawMessage(`[]`))
			var formatErr *llm.InvalidFormatError
			require.ErrorAs(t, err, &formatErr)
		})
	}
}

func TestDecodePodcast(t *testing.T) {
	raw := json.RawMessage(`[{"speaker":"Alex","line":"Welcome back."},{"speaker":"Sam","line":"Today: osmosis."}]`)
	out, err := decodeArtifact(types.ContentPodcast, raw)
	require.NoError(t, err)

	var lines []types.PodcastLine
	require.NoError(t, json.Unmarshal(out, &lines))
	assert.Len(t, lines, 2)

	_, err = decodeArtifact(types.ContentPodcast, json.RawMessage(`[{"speaker":"","line":"orphan"}]`))
	assert.Error(t, err)
}

func TestDecodeDebate(t *testing.T) {
	raw := json.RawMessage(`{"viewpointA":{"title":"For","arguments":["a1"]},"viewpointB":{"title":"Against","arguments":["b1"]}}`)
	out, err := decodeArtifact(types.ContentDebate, raw)
	require.NoError(t, err)

	var debate types.Debate
	require.NoError(t, json.Unmarshal(out, &debate))
	assert.Equal(t, "For", debate.ViewpointA.Title)

	_, err = decodeArtifact(types.ContentDebate, json.RawMessage(`{"viewpointA":{"title":"","arguments":[]}}`))
	assert.Error(t, err)
}

func TestDecodeMindMapShallowPassthrough(t *testing.T) {
	raw := json.RawMessage(`{"topic":"root","children":[{"topic":"child"}]}`)
	out, err := decodeArtifact(types.ContentMindMap, raw)
	require.NoError(t, err)

	var root types.MindMapNode
	require.NoError(t, json.Unmarshal(out, &root))
	assert.Equal(t, 2, root.Depth())
	assert.Equal(t, "child", root.Children[0].Topic)
}

// The unrolled mind-map schema must bottom out: its deepest level carries no
// children property, so the schema is finite at exactly the ceiling.
func TestMindMapSchemaDepthCeiling(t *testing.T) {
	schema := mindMapSchema()
	depth := 0
	for {
		depth++
		props, ok := schema["properties"].(map[string]interface{})
		require.True(t, ok)
		children, ok := props["children"].(map[string]interface{})
		if !ok {
			break
		}
		schema, ok = children["items"].(map[string]interface{})
		require.True(t, ok)
	}
	assert.Equal(t, types.MindMapMaxDepth, depth)
}

func TestIntentCatalogueComplete(t *testing.T) {
	for _, intent := range Intents() {
		spec, ok := intentCatalogue[intent]
		require.True(t, ok, "intent %s missing from catalogue", intent)
		assert.NotEmpty(t, spec.instruction)
		if spec.contentType.Structured() {
			assert.NotNil(t, spec.schema, "structured intent %s needs a schema", intent)
		} else {
			assert.Nil(t, spec.schema, "text intent %s must not carry a schema", intent)
		}
		if intent != IntentChat {
			assert.NotEmpty(t, spec.userText)
		}
	}
}
