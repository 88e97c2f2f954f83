package domain

import "time"

// Phase names a stage of an analysis run.
type Phase string

const (
	PhaseConfig    Phase = "config"
	PhaseExtract   Phase = "extract"
	PhaseModel     Phase = "model"
	PhaseEnumerate Phase = "enumerate"
	PhaseCompile   Phase = "compile"
	PhaseValidate  Phase = "validate"
)

// AnalysisEvent describes the completion of one analysis run.
type AnalysisEvent struct {
	Workflow string        `json:"workflow"`
	Gates    int           `json:"gates"`
	Paths    int           `json:"paths"`
	Edges    int           `json:"edges"`
	Warnings int           `json:"warnings"`
	Duration time.Duration `json:"duration"`
}

// FailureEvent describes a failed analysis run.
type FailureEvent struct {
	Workflow string `json:"workflow"`
	Phase    Phase  `json:"phase"`
	Err      error  `json:"-"`
}

// LifecycleHooks defines callbacks for analyzer observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnAnalyzed func(*AnalysisEvent)
	OnFailed   func(*FailureEvent)
}
