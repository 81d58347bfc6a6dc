// Package llm adapts language-generation backends to the two call shapes
// the mediation stages need: free text and forced JSON.
package llm

import (
	"context"
	"iter"
)

// Mode selects how the backend is asked to answer.
type Mode int

const (
	// ModeFreeText returns plain text.
	ModeFreeText Mode = iota
	// ModeStructuredJSON asks the backend for a single JSON object.
	ModeStructuredJSON
)

func (m Mode) String() string {
	if m == ModeStructuredJSON {
		return "structured_json"
	}
	return "free_text"
}

// Speaker is the role of a logical turn sent to a backend.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Message is one logical turn of backend input.
type Message struct {
	Speaker Speaker
	Content string
}

// Prompt is a conversation followed by a final user instruction.
// History may be nil.
type Prompt struct {
	History     iter.Seq[Message]
	Instruction string
}

// Messages flattens the prompt into the turns a backend receives. The
// instruction is merged into a trailing user turn so user turns never
// sit back to back.
func (p Prompt) Messages() []Message {
	var out []Message
	if p.History != nil {
		for m := range p.History {
			out = append(out, m)
		}
	}
	if n := len(out); n > 0 && out[n-1].Speaker == SpeakerUser {
		out[n-1].Content += "\n\n" + p.Instruction
		return out
	}
	return append(out, Message{Speaker: SpeakerUser, Content: p.Instruction})
}

// Generator is the capability every backend variant provides. Failures
// wrap domain.ErrDownstreamUnavailable. Implementations are safe for
// concurrent use.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt, mode Mode) (string, error)
	Close() error
}
