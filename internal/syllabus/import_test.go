package syllabus

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSON(t *testing.T) {
	doc := `{
		"subjects": [
			{"name": "Math", "weight": 18, "topics": [
				{"name": "Percentages", "difficulty": "easy"},
				{"name": "Probability", "difficulty": "hard"}
			]},
			{"name": "Portuguese", "color": "#123456"}
		]
	}`

	subjects, err := Decode(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	math := subjects[0]
	assert.Equal(t, "Math", math.Name)
	assert.Equal(t, 18, math.Weight)
	assert.Equal(t, SubjectColors[0], math.Color)
	require.Len(t, math.Topics, 2)
	assert.Equal(t, "Percentages", math.Topics[0].Name)
	assert.Equal(t, DifficultyEasy, math.Topics[0].Difficulty)
	assert.Equal(t, DifficultyHard, math.Topics[1].Difficulty)
	assert.Equal(t, math.ID, math.Topics[1].SubjectID)

	pt := subjects[1]
	assert.Equal(t, DefaultWeight, pt.Weight)
	assert.Equal(t, "#123456", pt.Color)
	assert.Empty(t, pt.Topics)
}

func TestDecode_YAML(t *testing.T) {
	doc := `
subjects:
  - name: Veterinary
    weight: 25
    topics:
      - name: Anatomy
        difficulty: hard
      - name: Hygiene
`
	subjects, err := Decode(strings.NewReader(doc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	require.Len(t, subjects[0].Topics, 2)
	assert.Equal(t, 25, subjects[0].Weight)
	assert.Equal(t, DifficultyMedium, subjects[0].Topics[1].Difficulty)
}

func TestDecode_InvalidWeightsDefault(t *testing.T) {
	doc := `{"subjects": [
		{"name": "Zero", "weight": 0},
		{"name": "Negative", "weight": -3},
		{"name": "Word", "weight": "abc"},
		{"name": "Text", "weight": "20"},
		{"name": "Fraction", "weight": 7.9},
		{"name": "Null", "weight": null},
		{"name": "Missing"}
	]}`
	subjects, err := Decode(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)

	want := map[string]int{"Zero": 10, "Negative": 10, "Word": 10, "Text": 20, "Fraction": 7, "Null": 10, "Missing": 10}
	require.Len(t, subjects, len(want))
	for _, s := range subjects {
		assert.Equal(t, want[s.Name], s.Weight, s.Name)
	}
}

func TestDecode_YAMLWordWeightDefaults(t *testing.T) {
	subjects, err := Decode(strings.NewReader("subjects:\n  - name: History\n    weight: lots\n"), FormatYAML)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, DefaultWeight, subjects[0].Weight)
	assert.NotNil(t, subjects[0].Topics)
}

func TestDecode_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing subjects", `{}`},
		{"unknown field", `{"subjects": [{"name": "A", "extra": 1}]}`},
		{"bad difficulty", `{"subjects": [{"name": "A", "topics": [{"name": "x", "difficulty": "insane"}]}]}`},
		{"empty name", `{"subjects": [{"name": ""}]}`},
		{"not json", `{"subjects": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSyllabus), "want ErrInvalidSyllabus, got %v", err)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("plan.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatFromPath("/tmp/plan.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatFromPath("plan.txt")
	assert.Error(t, err)
}
