package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversEveryElaborationModule(t *testing.T) {
	c := Default()
	for _, m := range domain.ElaborationModules {
		t.Run(string(m), func(t *testing.T) {
			entry, ok := c.Entry(m)
			require.True(t, ok)
			assert.NotEmpty(t, entry.Name)
			assert.Len(t, entry.StandardQuestions, 5)
			assert.NotEmpty(t, c.Templates(m))
		})
	}
}

func TestTemplates_FollowUpsFlattenedAfterParent(t *testing.T) {
	c := Default()

	var keys []string
	for _, tpl := range c.Templates(domain.ModuleCharacter) {
		keys = append(keys, tpl.Key)
	}
	assert.Equal(t, []string{"appearance", "facial_expression", "clothing"}, keys)

	keys = nil
	for _, tpl := range c.Templates(domain.ModuleSetting) {
		keys = append(keys, tpl.Key)
	}
	assert.Equal(t, []string{"environment", "weather", "time"}, keys)
}

func TestTemplates_UnknownModule(t *testing.T) {
	c := Default()
	assert.Nil(t, c.Templates(domain.ModuleGeneral))
	assert.Nil(t, c.StandardQuestions(domain.ModuleGeneral))
}

func TestStandardQuestionMap_UnknownModuleIsEmpty(t *testing.T) {
	c := Default()
	m := c.StandardQuestionMap([]domain.Module{domain.ModuleAction, domain.ModuleGeneral})
	assert.Len(t, m[domain.ModuleAction], 5)
	assert.NotNil(t, m[domain.ModuleGeneral])
	assert.Empty(t, m[domain.ModuleGeneral])
}

func TestStandardQuestions_ReturnsCopy(t *testing.T) {
	c := Default()
	qs := c.StandardQuestions(domain.ModuleAtmosphere)
	qs[0] = "mutated"
	assert.Equal(t, "What mood should the scene convey?", c.StandardQuestions(domain.ModuleAtmosphere)[0])
}

func TestTemplate_ToQuestion(t *testing.T) {
	tpl := Default().Templates(domain.ModuleAtmosphere)[0]
	q := tpl.ToQuestion("q_2", domain.ModuleAtmosphere)

	assert.Equal(t, "q_2", q.ID)
	assert.Equal(t, domain.ModuleAtmosphere, q.Module)
	assert.Equal(t, "mood", q.Category)
	assert.Equal(t, "What mood should the scene convey?", q.Question)
	assert.Equal(t, []string{"peaceful", "mysterious", "dramatic", "whimsical"}, q.Options)
	assert.Equal(t, []string{"For example: 'A serene and mystical atmosphere'"}, q.Examples)
}

func TestClosingQuestion(t *testing.T) {
	q := Default().ClosingQuestion("q_0")
	assert.Equal(t, "What other details would you like to add to the image?", q.Question)
	assert.Equal(t, domain.ModuleGeneral, q.Module)
	assert.Equal(t, "refinement", q.Category)
	assert.Equal(t, []string{"Add more detail", "Enhance mood", "Adjust composition", "Complete as is"}, q.Options)
	assert.Equal(t, []string{"Add more intricate details to the background"}, q.Examples)
}

func TestLoad_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty document"},
		{"unknown field", "modules: []\nclosing: {question: x}\nextra: 1\n", "extra"},
		{"unknown module", "modules:\n  - module: weather\nclosing: {question: x}\n", "unknown module"},
		{"missing closing", "modules: []\n", "closing: question is required"},
		{
			"duplicate key",
			"modules:\n  - module: action\n    categories:\n      - {key: a, question: q, options: [x]}\n      - {key: a, question: q, options: [x]}\nclosing: {question: x}\n",
			"duplicate key",
		},
		{
			"follow-up without options",
			"modules:\n  - module: action\n    categories:\n      - key: a\n        question: q\n        options: [x]\n        follow_up:\n          - {key: b, question: q}\nclosing: {question: x}\n",
			"at least one option",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
modules:
  - module: character
    name: Hero
    standard_questions: [Who?]
    categories:
      - key: role
        question: What role does the hero play?
        options: [knight, thief]
        examples: "For example: 'A reluctant knight'"
closing:
  key: refinement
  question: Anything else?
  options: [No]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Who?"}, c.StandardQuestions(domain.ModuleCharacter))
	assert.Nil(t, c.StandardQuestions(domain.ModuleSetting))
	assert.Equal(t, "Anything else?", c.ClosingQuestion("q_1").Question)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
