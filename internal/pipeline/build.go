package pipeline

// Options selects which stages a run includes.
type Options struct {
	// IncludeSearch schedules the Researcher stage.
	IncludeSearch bool

	// IncludeDocument schedules the DocumentReader stage.
	IncludeDocument bool
}

// Build returns the stage list for opts. Omitted stages are decided here,
// never inside Run.
func Build(opts Options) ([]Stage, error) {
	if !opts.IncludeSearch && !opts.IncludeDocument {
		return nil, ErrNoSources
	}

	var stages []Stage
	if opts.IncludeSearch {
		stages = append(stages, ResearcherStage())
	}
	if opts.IncludeDocument {
		stages = append(stages, DocumentReaderStage())
	}
	return append(stages, WriterStage(), CriticStage()), nil
}
