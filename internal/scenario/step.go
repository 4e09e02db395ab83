package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Step type tags as they appear on the wire.
const (
	TypeText       = "text"
	TypeQuiz       = "quiz"
	TypeReflection = "reflection"
	TypeQuizResult = "quiz_result"
)

// Step is one unit of content in a scenario. The set of implementations is
// closed: TextStep, QuizStep, ReflectionStep, QuizResultStep and UnknownStep.
type Step interface {
	// Type returns the wire tag of the step.
	Type() string
	// Raw returns the step object exactly as it was received.
	Raw() json.RawMessage

	step()
}

type rawStep struct {
	raw json.RawMessage
}

func (r rawStep) Raw() json.RawMessage { return r.raw }
func (rawStep) step()                  {}

// TextStep is an instructional lesson body.
type TextStep struct {
	rawStep
	Text string
}

func (TextStep) Type() string { return TypeText }

// QuizStep asks a question. Everything besides the question is kept in Raw.
type QuizStep struct {
	rawStep
	Question string
	QuizID   string
}

func (QuizStep) Type() string { return TypeQuiz }

// ReflectionStep asks for a free-text reflection.
type ReflectionStep struct {
	rawStep
	Prompt string
}

func (ReflectionStep) Type() string { return TypeReflection }

// QuizResultStep shows the outcome text of a quiz.
type QuizResultStep struct {
	rawStep
	CorrectText   string
	IncorrectText string
}

func (QuizResultStep) Type() string { return TypeQuizResult }

// Text returns CorrectText when set, otherwise IncorrectText.
func (s QuizResultStep) Text() string {
	if s.CorrectText != "" {
		return s.CorrectText
	}
	return s.IncorrectText
}

// UnknownStep carries a step whose tag this client does not recognise.
// Tag is empty when the object had no type field.
type UnknownStep struct {
	rawStep
	Tag string
}

func (s UnknownStep) Type() string { return s.Tag }

// NewTextStep builds a text step and its raw JSON.
func NewTextStep(text string) TextStep {
	return TextStep{rawStep: mustRaw(map[string]any{"type": TypeText, "text": text}), Text: text}
}

// NewReflectionStep builds a reflection step and its raw JSON.
func NewReflectionStep(prompt string) ReflectionStep {
	return ReflectionStep{rawStep: mustRaw(map[string]any{"type": TypeReflection, "prompt": prompt}), Prompt: prompt}
}

func mustRaw(v any) rawStep {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return rawStep{raw: data}
}

// DecodeStep parses one step object. Unrecognised tags decode to an
// UnknownStep; only input that is not a JSON object is an error.
func DecodeStep(data []byte) (Step, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("step is not a JSON object")
	}

	var head struct {
		Type json.RawMessage `json:"type"`
	}
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return nil, fmt.Errorf("failed to decode step: %w", err)
	}

	raw := rawStep{raw: append(json.RawMessage(nil), trimmed...)}

	var tag string
	if len(head.Type) > 0 {
		if err := json.Unmarshal(head.Type, &tag); err != nil {
			// A non-string tag is kept verbatim so the renderer can report it.
			return UnknownStep{rawStep: raw, Tag: string(head.Type)}, nil
		}
	}

	switch tag {
	case TypeText:
		var body struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return nil, fmt.Errorf("failed to decode text step: %w", err)
		}
		return TextStep{rawStep: raw, Text: body.Text}, nil

	case TypeQuiz:
		var body struct {
			Question string `json:"question"`
			QuizID   string `json:"quiz_id"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return nil, fmt.Errorf("failed to decode quiz step: %w", err)
		}
		return QuizStep{rawStep: raw, Question: body.Question, QuizID: body.QuizID}, nil

	case TypeReflection:
		var body struct {
			Prompt string `json:"prompt"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return nil, fmt.Errorf("failed to decode reflection step: %w", err)
		}
		return ReflectionStep{rawStep: raw, Prompt: body.Prompt}, nil

	case TypeQuizResult:
		var body struct {
			CorrectText   string `json:"correct_text"`
			IncorrectText string `json:"incorrect_text"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			return nil, fmt.Errorf("failed to decode quiz_result step: %w", err)
		}
		return QuizResultStep{rawStep: raw, CorrectText: body.CorrectText, IncorrectText: body.IncorrectText}, nil

	default:
		return UnknownStep{rawStep: raw, Tag: tag}, nil
	}
}

// Steps is an ordered list of steps that decodes each element through DecodeStep.
type Steps []Step

// UnmarshalJSON decodes a JSON array of step objects, preserving order.
func (s *Steps) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("steps: %w", err)
	}
	out := make(Steps, 0, len(items))
	for i, item := range items {
		st, err := DecodeStep(item)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, st)
	}
	*s = out
	return nil
}

// MarshalJSON writes each step's raw object back out.
func (s Steps) MarshalJSON() ([]byte, error) {
	items := make([]json.RawMessage, len(s))
	for i, st := range s {
		items[i] = st.Raw()
	}
	return json.Marshal(items)
}
