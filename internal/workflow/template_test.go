package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesAreValid(t *testing.T) {
	tpls := Templates()
	require.NotEmpty(t, tpls)

	seen := map[string]bool{}
	for _, tpl := range tpls {
		assert.NotEmpty(t, tpl.ID)
		assert.NotEmpty(t, tpl.Name)
		assert.False(t, seen[tpl.ID], "duplicate template id %s", tpl.ID)
		seen[tpl.ID] = true

		cfg := tpl.Config
		assert.NoError(t, Validate(&cfg), "template %s", tpl.ID)
	}
}

func TestFindTemplate(t *testing.T) {
	tpl, ok := FindTemplate("research_assistant")
	require.True(t, ok)
	assert.Equal(t, "supervisor", tpl.WorkflowType)
	require.Len(t, tpl.Config.Teams, 1)
	assert.Equal(t, "research_supervisor", tpl.Config.Teams[0].Supervisor.Name)
	assert.Len(t, tpl.Config.Teams[0].Workers, 3)

	hub, ok := FindTemplate("product_development_team")
	require.True(t, ok)
	assert.Equal(t, "hub", hub.Config.Coordination.Type)
	assert.Equal(t, "product_manager", hub.Config.Coordination.Coordinator)

	_, ok = FindTemplate("missing")
	assert.False(t, ok)
}
