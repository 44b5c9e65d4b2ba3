// Package pipeline runs the content stages (Researcher, DocumentReader,
// Writer, Critic) strictly in order, each stage seeing every output
// recorded before it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"eventscout/internal/logging"
	"eventscout/internal/tools"

	"github.com/google/uuid"
)

// Invoker resolves a capability to its tool and executes it.
type Invoker interface {
	Invoke(ctx context.Context, c tools.Capability, args map[string]any) (*tools.ToolResult, error)
}

// StageRecord is timing metadata for a completed stage.
type StageRecord struct {
	Role       Role
	Duration   time.Duration
	InputChars int
}

// Result is a completed run.
type Result struct {
	RunID   string
	Context *ExecutionContext
	Records []StageRecord
}

// Output returns the final stage's output.
func (r *Result) Output() string {
	if r == nil || r.Context == nil {
		return ""
	}
	last, _ := r.Context.Last()
	return last.Output
}

// Orchestrator executes stages sequentially.
type Orchestrator struct {
	tools Invoker
}

// NewOrchestrator creates an orchestrator dispatching capabilities to inv.
func NewOrchestrator(inv Invoker) *Orchestrator {
	return &Orchestrator{tools: inv}
}

// Run executes stages in order over a copy of seed. Cancellation of ctx is
// observed between stages only; a stage in flight runs to completion. On
// failure the returned Result holds the partial context and the error is a
// *StageError.
func (o *Orchestrator) Run(ctx context.Context, stages []Stage, seed *ExecutionContext) (*Result, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	if seed == nil {
		seed = NewContext("", nil)
	}

	ec := seed.clone()
	result := &Result{RunID: uuid.NewString(), Context: ec}
	log := logging.Get(logging.CategoryPipeline).With("run_id", result.RunID)
	log.Info("pipeline started: %d stages", len(stages))

	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return result, o.fail(log, i, stage, err, ec)
		}

		start := time.Now()
		output, refs, inputChars, err := o.runStage(context.WithoutCancel(ctx), stage, ec)
		if err != nil {
			return result, o.fail(log, i, stage, err, ec)
		}

		ec.allow(refs)
		ec.append(Entry{Role: stage.Role, Output: output})
		rec := StageRecord{Role: stage.Role, Duration: time.Since(start), InputChars: inputChars}
		result.Records = append(result.Records, rec)
		log.Info("stage %d/%d %s completed in %v (%d chars out)", i+1, len(stages), stage.Role, rec.Duration, len(output))
	}

	log.Info("pipeline completed")
	return result, nil
}

func (o *Orchestrator) fail(log *logging.Logger, i int, stage Stage, err error, ec *ExecutionContext) error {
	log.Error("stage %d %s failed: %v", i+1, stage.Role, err)
	return &StageError{Index: i, Role: stage.Role, Err: err, Partial: ec}
}

// runStage executes one stage without touching ec. References returned by
// the search capability are handed back so the caller records them only
// once the stage has succeeded.
func (o *Orchestrator) runStage(ctx context.Context, stage Stage, ec *ExecutionContext) (string, []string, int, error) {
	var (
		capOutput string
		refs      []string
	)
	switch stage.RequiredCapability {
	case tools.CapabilityNone:
	case tools.CapabilitySearch:
		res, err := o.tools.Invoke(ctx, tools.CapabilitySearch, map[string]any{"query": ec.Query()})
		if err != nil {
			return "", nil, 0, err
		}
		refs = res.Output.References
		capOutput = res.Output.Text
	case tools.CapabilityDocumentRead:
		res, err := o.tools.Invoke(ctx, tools.CapabilityDocumentRead, map[string]any{})
		if err != nil {
			return "", nil, 0, err
		}
		capOutput = res.Output.Text
	default:
		return "", nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedCapability, stage.RequiredCapability)
	}

	allowed := ec.clone()
	allowed.allow(refs)

	input := composeInput(ec, stage, capOutput)
	res, err := o.tools.Invoke(ctx, tools.CapabilityGenerate, map[string]any{
		"system": stage.systemPrompt(allowed.AllowedURLs()),
		"input":  input,
	})
	if err != nil {
		return "", nil, len(input), err
	}
	return res.Output.Text, refs, len(input), nil
}
