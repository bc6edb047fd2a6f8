package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() *Config {
	cfg := NewConfig()
	cfg.Teams = []Team{
		{
			ID:   "team-1",
			Name: "research",
			Supervisor: Agent{
				Name: "research_supervisor", Role: "supervisor",
				ModelProvider: "openai", ModelName: "gpt-4o", Temperature: 0.2,
			},
			Workers: []Agent{
				{Name: "searcher", Role: "worker", ModelProvider: "openai", ModelName: "gpt-4o-mini", Tools: []string{"web_search"}},
				{Name: "summarizer", Role: "worker", ModelProvider: "anthropic", ModelName: "claude-sonnet"},
			},
		},
	}
	cfg.PeerAgents = []Agent{
		{Name: "critic", Role: "peer", ModelProvider: "openai", ModelName: "gpt-4o"},
	}
	cfg.Tools = []Tool{
		{
			Name: "lookup", FunctionName: "lookup_records", Description: "Look up records",
			Parameters: map[string]ParameterSpec{
				"query": {Type: TypeString, Description: "query text", Required: true},
				"limit": {Type: TypeInteger, Description: "max results", Default: float64(5)},
			},
		},
	}
	return cfg
}

func TestExportImportRoundTrip(t *testing.T) {
	cfg := sampleConfig()
	data, err := Export(cfg)
	require.NoError(t, err)

	back, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestImportInvalidJSON(t *testing.T) {
	_, err := Import([]byte(`{not json`))
	require.Error(t, err)
}

func TestImportFillsNilSlices(t *testing.T) {
	cfg, err := Import([]byte(`{"coordination":{"type":"sequential"}}`))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Teams)
	assert.NotNil(t, cfg.PeerAgents)
	assert.NotNil(t, cfg.Tools)
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateID("team")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name    string
		typ     ParameterType
		raw     any
		want    any
		wantErr bool
	}{
		{"string passthrough", TypeString, "hello", "hello", false},
		{"string from number", TypeString, 42, "42", false},
		{"integer from float", TypeInteger, float64(7), int64(7), false},
		{"integer from string", TypeInteger, "12", int64(12), false},
		{"integer rejects fraction", TypeInteger, 1.5, nil, true},
		{"integer rejects text", TypeInteger, "abc", nil, true},
		{"number from string", TypeNumber, "3.25", 3.25, false},
		{"boolean from string", TypeBoolean, "true", true, false},
		{"boolean rejects text", TypeBoolean, "yep", nil, true},
		{"array passthrough", TypeArray, []any{"a"}, []any{"a"}, false},
		{"array rejects scalar", TypeArray, "a", nil, true},
		{"object passthrough", TypeObject, map[string]any{"k": 1}, map[string]any{"k": 1}, false},
		{"object rejects scalar", TypeObject, 3, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(tt.typ, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestValidateSpec(t *testing.T) {
	err := ValidateSpec("limit", ParameterSpec{Type: TypeInteger, Default: "not a number"})
	assert.Error(t, err)

	err = ValidateSpec("mode", ParameterSpec{Type: TypeString, Enum: []any{"fast", "slow"}})
	assert.NoError(t, err)

	err = ValidateSpec("x", ParameterSpec{Type: "mystery"})
	assert.Error(t, err)
}

func TestValidateTool(t *testing.T) {
	tool := Tool{Name: "t", FunctionName: "f", Parameters: map[string]ParameterSpec{
		"q": {Type: TypeString},
	}}
	assert.NoError(t, ValidateTool(tool))

	assert.Error(t, ValidateTool(Tool{FunctionName: "f", Parameters: tool.Parameters}))
	assert.Error(t, ValidateTool(Tool{Name: "t", Parameters: tool.Parameters}))
	assert.Error(t, ValidateTool(Tool{Name: "t", FunctionName: "f"}))
}

func TestValidateConfig(t *testing.T) {
	cfg := sampleConfig()
	require.NoError(t, Validate(cfg))

	empty := NewConfig()
	assert.Error(t, Validate(empty))

	bad := sampleConfig()
	bad.Teams[0].Workers[0].Tools = []string{"no_such_tool"}
	assert.Error(t, Validate(bad))

	dup := sampleConfig()
	dup.Teams[0].Workers[1].Name = "searcher"
	assert.Error(t, Validate(dup))

	badCoord := sampleConfig()
	badCoord.Coordination.Type = "circular"
	assert.Error(t, Validate(badCoord))
}

func TestCloneIndependent(t *testing.T) {
	cfg := sampleConfig()
	cp := Clone(cfg)
	require.Equal(t, cfg, cp)

	cp.Teams[0].Name = "changed"
	assert.Equal(t, "research", cfg.Teams[0].Name)
}

func TestAllAgentsOrder(t *testing.T) {
	cfg := sampleConfig()
	agents := cfg.AllAgents()
	require.Len(t, agents, 4)
	assert.Equal(t, "research_supervisor", agents[0].Name)
	assert.Equal(t, "critic", agents[3].Name)
}
