package scenario

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStep_KnownKinds(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"text", `{"type":"text","text":"Welcome"}`, TypeText},
		{"quiz", `{"type":"quiz","question":"Which rack?","quiz_id":"server_style"}`, TypeQuiz},
		{"reflection", `{"type":"reflection","prompt":"Think"}`, TypeReflection},
		{"quiz_result", `{"type":"quiz_result","correct_text":"Yes"}`, TypeQuizResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := DecodeStep([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Type())
			assert.JSONEq(t, tt.in, string(st.Raw()))
		})
	}
}

func TestDecodeStep_Fields(t *testing.T) {
	st, err := DecodeStep([]byte(`{"type":"quiz","question":"Q?","quiz_id":"q1","answers":["a","b"]}`))
	require.NoError(t, err)
	quiz, ok := st.(QuizStep)
	require.True(t, ok, "expected QuizStep, got %T", st)
	assert.Equal(t, "Q?", quiz.Question)
	assert.Equal(t, "q1", quiz.QuizID)
	assert.Contains(t, string(quiz.Raw()), `"answers"`)

	st, err = DecodeStep([]byte(`{"type":"quiz_result","incorrect_text":"Not quite"}`))
	require.NoError(t, err)
	res := st.(QuizResultStep)
	assert.Equal(t, "Not quite", res.Text())

	res.CorrectText = "Right"
	assert.Equal(t, "Right", res.Text())
}

func TestDecodeStep_UnknownTag(t *testing.T) {
	st, err := DecodeStep([]byte(`{"type":"mystery","payload":1}`))
	require.NoError(t, err)
	unknown, ok := st.(UnknownStep)
	require.True(t, ok)
	assert.Equal(t, "mystery", unknown.Tag)
	assert.Equal(t, "mystery", unknown.Type())
}

func TestDecodeStep_MissingAndNonStringTag(t *testing.T) {
	st, err := DecodeStep([]byte(`{"text":"no tag"}`))
	require.NoError(t, err)
	assert.Equal(t, UnknownStep{rawStep: rawStep{raw: json.RawMessage(`{"text":"no tag"}`)}}, st)

	st, err = DecodeStep([]byte(`{"type":42}`))
	require.NoError(t, err)
	assert.Equal(t, "42", st.(UnknownStep).Tag)
}

func TestDecodeStep_NotAnObject(t *testing.T) {
	for _, in := range []string{`"text"`, `[1,2]`, `42`, ``} {
		_, err := DecodeStep([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestScenario_UnmarshalPreservesOrder(t *testing.T) {
	payload := `{
		"id": "first_5_minutes",
		"title": "First five minutes",
		"steps": [
			{"type": "text", "text": "Welcome"},
			{"type": "mystery"},
			{"type": "reflection", "prompt": "Think"}
		]
	}`

	var sc Scenario
	require.NoError(t, json.Unmarshal([]byte(payload), &sc))
	require.Equal(t, 3, sc.Len())
	assert.Equal(t, TypeText, sc.Steps[0].Type())
	assert.Equal(t, "mystery", sc.Steps[1].Type())
	assert.Equal(t, TypeReflection, sc.Steps[2].Type())
	assert.Equal(t, "first_5_minutes", sc.ID)
}

func TestScenario_MissingSteps(t *testing.T) {
	var sc Scenario
	assert.Error(t, json.Unmarshal([]byte(`{"title":"x"}`), &sc))
	assert.Error(t, json.Unmarshal([]byte(`{"title":"x","steps":null}`), &sc))
	assert.Error(t, json.Unmarshal([]byte(`{"steps":[1]}`), &sc))
	require.NoError(t, json.Unmarshal([]byte(`{"steps":[]}`), &sc))
	assert.Equal(t, 0, sc.Len())
}

func TestSteps_MarshalRoundTrip(t *testing.T) {
	in := `[{"type":"text","text":"Welcome"},{"type":"mystery","x":1}]`
	var steps Steps
	require.NoError(t, json.Unmarshal([]byte(in), &steps))
	out, err := json.Marshal(steps)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestModule_LabelAndValidate(t *testing.T) {
	m := Module{ID: "orientation", Title: "Orientation", EstimatedMinutes: 5, DefaultScenarioID: "first_5_minutes"}
	assert.Equal(t, "Orientation (~5 min)", m.Label())
	assert.NoError(t, m.Validate())

	m.EstimatedMinutes = 7.5
	assert.Equal(t, "Orientation (~7.5 min)", m.Label())
	assert.Equal(t, "7.5", m.Minutes())

	assert.Error(t, Module{DefaultScenarioID: "x"}.Validate())
	assert.Error(t, Module{ID: "x"}.Validate())
}

func TestEnvelope_Validate(t *testing.T) {
	assert.Error(t, (&Envelope{}).Validate())
	assert.NoError(t, (&Envelope{Scenario: &Scenario{}}).Validate())
}
