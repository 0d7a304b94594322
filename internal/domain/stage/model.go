package stage

// Stage is one named phase of the pipeline (e.g. thesis, antithesis,
// synthesis) together with its recipe step.
type Stage struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	DisplayName string     `json:"display_name"`
	RecipeStep  RecipeStep `json:"recipe_step"`
}

// RecipeStep declares what prior-stage artifacts a stage needs before it
// can run. Rule order is a contract: consumers rely on it for deterministic
// prompt assembly.
type RecipeStep struct {
	ID         string      `json:"id"`
	StepKey    string      `json:"step_key"`
	InputRules []InputRule `json:"input_rules"`
}
