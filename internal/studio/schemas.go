package studio

import "sourcebook/internal/types"

// Response schemas for structured intents, expressed as raw JSON schema maps
// the way the generation backends consume them.

func stringProp() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func stringArrayProp() map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": stringProp(),
	}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func arraySchema(items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type":  "array",
		"items": items,
	}
}

func quizSchema() map[string]interface{} {
	return arraySchema(objectSchema(map[string]interface{}{
		"question":      stringProp(),
		"options":       stringArrayProp(),
		"correctAnswer": stringProp(),
	}, "question", "options", "correctAnswer"))
}

func flashcardsSchema() map[string]interface{} {
	return arraySchema(objectSchema(map[string]interface{}{
		"term":       stringProp(),
		"definition": stringProp(),
	}, "term", "definition"))
}

func faqSchema() map[string]interface{} {
	return arraySchema(objectSchema(map[string]interface{}{
		"question": stringProp(),
		"answer":   stringProp(),
	}, "question", "answer"))
}

func timelineSchema() map[string]interface{} {
	return arraySchema(objectSchema(map[string]interface{}{
		"date":        stringProp(),
		"event":       stringProp(),
		"description": stringProp(),
	}, "date", "event", "description"))
}

func podcastSchema() map[string]interface{} {
	return arraySchema(objectSchema(map[string]interface{}{
		"speaker": stringProp(),
		"line":    stringProp(),
	}, "speaker", "line"))
}

// mindMapSchema unrolls the recursive node shape to a fixed depth because the
// backends reject self-referential schemas. The deepest level is topic-only;
// payloads that nest further are truncated at decode time.
func mindMapSchema() map[string]interface{} {
	node := objectSchema(map[string]interface{}{
		"topic": stringProp(),
	}, "topic")
	for i := 1; i < types.MindMapMaxDepth; i++ {
		node = objectSchema(map[string]interface{}{
			"topic":    stringProp(),
			"children": arraySchema(node),
		}, "topic")
	}
	return node
}

func debateSchema() map[string]interface{} {
	viewpoint := objectSchema(map[string]interface{}{
		"title":     stringProp(),
		"arguments": stringArrayProp(),
	}, "title", "arguments")
	return objectSchema(map[string]interface{}{
		"viewpointA": viewpoint,
		"viewpointB": viewpoint,
	}, "viewpointA", "viewpointB")
}
