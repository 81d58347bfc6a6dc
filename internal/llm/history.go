package llm

import (
	"iter"

	"github.com/workdesk-labs/work-mediator/internal/domain"
)

// HistoryWindow is how many trailing turns reach the backend.
const HistoryWindow = 10

// FormatHistory turns raw chat history into backend input. It keeps the
// last HistoryWindow turns, drops a trailing user turn that echoes
// currentInput, skips system turns and merges same-role neighbours with
// a blank line. The returned sequence is lazy and can be ranged over
// more than once.
func FormatHistory(history []domain.ChatTurn, currentInput string) iter.Seq[Message] {
	window := history
	if len(window) > HistoryWindow {
		window = window[len(window)-HistoryWindow:]
	}
	if n := len(window); n > 0 && window[n-1].Role == domain.ChatRoleUser && window[n-1].Content == currentInput {
		window = window[:n-1]
	}

	return func(yield func(Message) bool) {
		var pending *Message
		for _, turn := range window {
			speaker, ok := speakerFor(turn.Role)
			if !ok {
				continue
			}
			if pending != nil && pending.Speaker == speaker {
				pending.Content += "\n\n" + turn.Content
				continue
			}
			if pending != nil && !yield(*pending) {
				return
			}
			pending = &Message{Speaker: speaker, Content: turn.Content}
		}
		if pending != nil {
			yield(*pending)
		}
	}
}

func speakerFor(role domain.ChatRole) (Speaker, bool) {
	switch role {
	case domain.ChatRoleUser:
		return SpeakerUser, true
	case domain.ChatRoleAssistant:
		return SpeakerAssistant, true
	}
	return "", false
}
