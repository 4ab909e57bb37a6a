package prompt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateFormat(t *testing.T) {
	tmpl := New("greeting", "Hello {{.name}}, you asked: {{.question}}", "name", "question")

	t.Run("substitutes all inputs", func(t *testing.T) {
		out, err := tmpl.Render(map[string]string{"name": "Ada", "question": "why?"})
		require.NoError(t, err)
		assert.Equal(t, "Hello Ada, you asked: why?", out.User)
	})

	t.Run("ignores extra inputs", func(t *testing.T) {
		out, err := tmpl.Render(map[string]string{"name": "Ada", "question": "why?", "unused": "x"})
		require.NoError(t, err)
		assert.Equal(t, "Hello Ada, you asked: why?", out.User)
	})

	t.Run("missing input is an error", func(t *testing.T) {
		_, err := tmpl.Render(map[string]string{"name": "Ada"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingInput))
		assert.Contains(t, err.Error(), "question")
	})

	t.Run("empty value is not missing", func(t *testing.T) {
		out, err := tmpl.Render(map[string]string{"name": "", "question": ""})
		require.NoError(t, err)
		assert.Equal(t, "Hello , you asked: ", out.User)
	})

	t.Run("deterministic", func(t *testing.T) {
		values := map[string]string{"name": "Ada", "question": "why?"}
		first, err := tmpl.Render(values)
		require.NoError(t, err)
		second, err := tmpl.Render(values)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no html escaping", func(t *testing.T) {
		out, err := tmpl.Render(map[string]string{"name": "<b>", "question": "State='CA'"})
		require.NoError(t, err)
		assert.Equal(t, "Hello <b>, you asked: State='CA'", out.User)
	})
}

func TestTemplateInputVariables(t *testing.T) {
	vars := WriteAnswer.InputVariables()
	assert.ElementsMatch(t, []string{VarPlan, VarSQLQuery, VarSQLResult, VarQuestion}, vars)

	// callers cannot mutate the declared inputs
	vars[0] = "changed"
	assert.NotContains(t, WriteAnswer.InputVariables(), "changed")
}

func TestFixedTemplates(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     *Template
		values   map[string]string
		contains []string
	}{
		{
			name: "feasibility",
			tmpl: Feasibility,
			values: map[string]string{
				VarDataDescription: "Retail Table",
				VarQuestion:        "What is the average amount spent by customers in California?",
			},
			contains: []string{"Retail Table", "'reasoning' and 'can_answer'", "customers in California?"},
		},
		{
			name: "write query",
			tmpl: WriteQuery,
			values: map[string]string{
				VarDataDescription: "Retail Table",
				VarPlan:            "average Total_Spent",
				VarQuestion:        "q",
			},
			contains: []string{"following plan: average Total_Spent", "Return an SQL query"},
		},
		{
			name: "write answer",
			tmpl: WriteAnswer,
			values: map[string]string{
				VarPlan:      "p",
				VarSQLQuery:  "SELECT 1",
				VarSQLResult: "| 1 |",
				VarQuestion:  "q",
			},
			contains: []string{"generated the query SELECT 1", "| 1 |"},
		},
		{
			name: "cannot answer",
			tmpl: CannotAnswer,
			values: map[string]string{
				VarProblem:  "no such column",
				VarQuestion: "How many purchases happened on Mars?",
			},
			contains: []string{"following problem: no such column.", "apologize", "on Mars?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.tmpl.Render(tt.values)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}

			_, err = tt.tmpl.Render(map[string]string{})
			assert.ErrorIs(t, err, ErrMissingInput)
		})
	}
}

func TestTemplateRender(t *testing.T) {
	t.Run("splits system and user turn", func(t *testing.T) {
		p, err := CannotAnswer.Render(map[string]string{
			VarProblem:  "no planet column",
			VarQuestion: "How many purchases happened on Mars?",
		})
		require.NoError(t, err)
		assert.Contains(t, p.System, "database reading bot")
		assert.Contains(t, p.System, "no planet column")
		assert.NotContains(t, p.System, "Mars")
		assert.Equal(t, "Question: How many purchases happened on Mars?", p.User)
		assert.Equal(t, p.System+"\n\n"+p.User, p.String())
	})

	t.Run("single part template has no system", func(t *testing.T) {
		p, err := New("plain", "Hi {{.name}}", "name").Render(map[string]string{"name": "Ada"})
		require.NoError(t, err)
		assert.Empty(t, p.System)
		assert.Equal(t, "Hi Ada", p.String())
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := Feasibility.Render(map[string]string{VarQuestion: "q"})
		assert.ErrorIs(t, err, ErrMissingInput)
	})
}
