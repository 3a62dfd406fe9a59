package llm

import (
	"encoding/json"
	"strings"

	"github.com/satori-health/meridia/domain/entities"
)

// ParseReply turns raw model output into a structured reply. Markdown
// code fences around the JSON are tolerated. Output that is not valid
// JSON becomes a plain conversational reply rather than an error.
func ParseReply(raw string) entities.StructuredReply {
	text := strings.TrimSpace(raw)
	text = stripCodeFence(text)

	var reply entities.StructuredReply
	if err := json.Unmarshal([]byte(text), &reply); err == nil && reply.Utterance != "" {
		if reply.Intent == "" {
			reply.Intent = entities.IntentGeneralConversation
		}
		return reply
	}

	return entities.StructuredReply{
		Utterance: strings.TrimSpace(raw),
		Intent:    entities.IntentGeneralConversation,
	}
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
