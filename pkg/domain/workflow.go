package domain

// Workflow is what a front end hands to the engine: the flat element list of
// one workflow function plus the activity registry found next to it.
type Workflow struct {
	Name     string          `json:"name" yaml:"name" mapstructure:"name"`
	File     string          `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
	Elements []SourceElement `json:"elements" yaml:"elements" mapstructure:"elements"`
	// Registry lists every activity declared in the analyzed codebase.
	Registry []string `json:"registry,omitempty" yaml:"registry,omitempty" mapstructure:"registry"`
}
