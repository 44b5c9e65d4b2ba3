package pipeline

import (
	"fmt"
	"strings"

	"eventscout/internal/tools"
)

// Role names a pipeline stage.
type Role string

const (
	RoleResearcher     Role = "researcher"
	RoleDocumentReader Role = "document_reader"
	RoleWriter         Role = "writer"
	RoleCritic         Role = "critic"
)

// Title returns the display name used in rendered context.
func (r Role) Title() string {
	switch r {
	case RoleResearcher:
		return "Researcher"
	case RoleDocumentReader:
		return "Document Reader"
	case RoleWriter:
		return "Writer"
	case RoleCritic:
		return "Critic"
	default:
		return string(r)
	}
}

// Stage is one step of the content pipeline.
type Stage struct {
	Role Role

	// Persona becomes the system prompt.
	Persona string

	// Task and ExpectedOutput are appended to the stage input.
	Task           string
	ExpectedOutput string

	// RequiredCapability is invoked before generation; its output is folded
	// into the stage input. CapabilityNone means generation only.
	RequiredCapability tools.Capability

	// RestrictURLs appends the allowed signup URL list to the system prompt.
	RestrictURLs bool
}

// systemPrompt renders the persona, plus the allowed URL list for stages
// that cite signup links.
func (s Stage) systemPrompt(allowed []string) string {
	if !s.RestrictURLs {
		return s.Persona
	}
	var sb strings.Builder
	sb.WriteString(s.Persona)
	sb.WriteString("\n\nAllowed signup URLs. Use only these, copied exactly, or write \"not available\":\n")
	if len(allowed) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, u := range allowed {
		fmt.Fprintf(&sb, "- %s\n", u)
	}
	return sb.String()
}

// composeInput renders prior stage outputs, the stage task and the
// capability output into the generation input.
func composeInput(ec *ExecutionContext, s Stage, capabilityOutput string) string {
	var sb strings.Builder
	if prior := ec.Render(); prior != "" {
		sb.WriteString("## Context from previous stages\n\n")
		sb.WriteString(prior)
		sb.WriteString("\n")
	}
	sb.WriteString("## Task\n\n")
	sb.WriteString(s.Task)
	if s.ExpectedOutput != "" {
		sb.WriteString("\n\nExpected output: ")
		sb.WriteString(s.ExpectedOutput)
	}
	if s.RequiredCapability != tools.CapabilityNone {
		fmt.Fprintf(&sb, "\n\n## Tool output (%s)\n\n", s.RequiredCapability)
		sb.WriteString(capabilityOutput)
	}
	return sb.String()
}
