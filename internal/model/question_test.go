package model

import (
	"encoding/json"
	"testing"
)

func TestOptionUnmarshalBothForms(t *testing.T) {
	var list OptionList
	data := []byte(`["Plain text", {"text": "Rich", "imageUrl": "https://img.example/a.png"}]`)
	if err := json.Unmarshal(data, &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("got %d options, want 2", len(list))
	}
	if list[0].Text != "Plain text" || list[0].ImageURL != "" {
		t.Errorf("plain form parsed as %+v", list[0])
	}
	if list[1].Text != "Rich" || list[1].ImageURL != "https://img.example/a.png" {
		t.Errorf("object form parsed as %+v", list[1])
	}
}

func TestQuestionContentHasCorrectAnswer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"index", `1`, true},
		{"text", `"Paris"`, true},
		{"index list", `[0,2]`, true},
		{"empty", ``, false},
		{"json null", `null`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := QuestionContent{CorrectAnswer: json.RawMessage(tt.raw)}
			if got := c.HasCorrectAnswer(); got != tt.want {
				t.Errorf("HasCorrectAnswer() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptionIndex(t *testing.T) {
	c := QuestionContent{
		Options: OptionList{{Text: "Red"}, {Text: "Green"}, {Text: "2"}},
	}

	tests := []struct {
		value string
		want  int
	}{
		{"Red", 0},
		{"Green", 1},
		{"2", 2}, // text match wins over numeric interpretation
		{"1", 1}, // numeric fallback
		{"9", -1},
		{"Blue", -1},
	}

	for _, tt := range tests {
		if got := c.OptionIndex(tt.value); got != tt.want {
			t.Errorf("OptionIndex(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestContentFreezesQuestion(t *testing.T) {
	q := &Question{
		Text:          "Capital of France?",
		Type:          SingleChoice,
		Options:       OptionList{{Text: "Paris"}, {Text: "Lyon"}},
		CorrectAnswer: json.RawMessage(`0`),
		Points:        2,
		Tags:          StringList{"geo"},
	}

	content := q.Content()
	q.Tags[0] = "mutated"

	if content.Tags[0] != "geo" {
		t.Error("snapshot tags share backing array with the question")
	}
	if idx, ok := content.CorrectIndex(); !ok || idx != 0 {
		t.Errorf("CorrectIndex() = %d, %v", idx, ok)
	}
}
