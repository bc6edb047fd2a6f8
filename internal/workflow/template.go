package workflow

// Template is a ready-made workflow configuration users can start an
// editor session or a saved workflow from.
type Template struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	WorkflowType string `json:"workflow_type"`
	Config       Config `json:"config"`
}

// Templates returns the built-in template catalog. Every entry passes
// Validate.
func Templates() []Template {
	return []Template{
		{
			ID:           "research_assistant",
			Name:         "Research Assistant",
			Description:  "A supervisor-led team that retrieves information, analyzes it, and checks facts",
			WorkflowType: "supervisor",
			Config: Config{
				Teams: []Team{{
					ID:          "research_team",
					Name:        "Research Team",
					Description: "Gathers and verifies information on a topic",
					Supervisor: Agent{
						Name:          "research_supervisor",
						Role:          "supervisor",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-pro",
						SystemMessage: "Coordinate the research effort and assemble the final answer.",
					},
					Workers: []Agent{
						{
							Name:          "information_retriever",
							Role:          "worker",
							ModelProvider: "vertexai",
							ModelName:     "gemini-1.5-flash",
							SystemMessage: "Find relevant sources for the research question.",
							Tools:         []string{"web_search"},
						},
						{
							Name:          "analyst",
							Role:          "worker",
							ModelProvider: "vertexai",
							ModelName:     "gemini-1.5-pro",
							SystemMessage: "Analyze the gathered material and extract key findings.",
							Tools:         []string{"analyze_data"},
						},
						{
							Name:          "fact_checker",
							Role:          "worker",
							ModelProvider: "vertexai",
							ModelName:     "gemini-1.5-flash",
							SystemMessage: "Verify claims against independent sources.",
							Tools:         []string{"web_search"},
						},
					},
				}},
				Coordination: Coordination{Type: "sequential"},
				Settings:     Settings{MaxIterations: 3, CheckpointDir: "checkpoints"},
			},
		},
		{
			ID:           "writing_assistant",
			Name:         "Writing Assistant",
			Description:  "Peer agents that plan, draft, edit, and fact-check a piece of writing",
			WorkflowType: "swarm",
			Config: Config{
				PeerAgents: []Agent{
					{
						Name:          "content_planner",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-pro",
						SystemMessage: "Outline the piece and hand the plan to the writer.",
					},
					{
						Name:          "writer",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-pro",
						SystemMessage: "Draft the piece following the plan.",
					},
					{
						Name:          "editor",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-flash",
						SystemMessage: "Tighten the draft for clarity and tone.",
					},
					{
						Name:          "fact_researcher",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-flash",
						SystemMessage: "Check factual claims before publication.",
						Tools:         []string{"web_search"},
					},
				},
				Coordination: Coordination{Type: "sequential"},
				Settings:     DefaultSettings(),
			},
		},
		{
			ID:           "product_development_team",
			Name:         "Product Development Team",
			Description:  "A product manager coordinating design, engineering, and market research",
			WorkflowType: "swarm",
			Config: Config{
				PeerAgents: []Agent{
					{
						Name:          "product_manager",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-pro",
						SystemMessage: "Own the product direction and route work to the specialists.",
					},
					{
						Name:          "ux_designer",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-flash",
						SystemMessage: "Propose user flows and interface sketches.",
					},
					{
						Name:          "developer",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-pro",
						SystemMessage: "Assess feasibility and prototype solutions.",
						Tools:         []string{"execute_code"},
					},
					{
						Name:          "market_researcher",
						Role:          "peer",
						ModelProvider: "vertexai",
						ModelName:     "gemini-1.5-flash",
						SystemMessage: "Gather competitor and market signals.",
						Tools:         []string{"web_search", "analyze_data"},
					},
				},
				Coordination: Coordination{Type: "hub", Coordinator: "product_manager"},
				Settings:     Settings{MaxIterations: 3, CheckpointDir: "checkpoints"},
			},
		},
	}
}

// FindTemplate returns the template with the given id.
func FindTemplate(id string) (Template, bool) {
	for _, t := range Templates() {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
