package common

import (
	"context"

	"resumescore/internal/errors"
	"resumescore/internal/types"
)

// ScoreOperationFunc is a generic function signature for any scoring operation
// over a loaded facts document.
type ScoreOperationFunc[Output any] func(context.Context, *types.DocumentFacts) (Output, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc func(facts *types.DocumentFacts, cfg CommandConfig)

// RunScoreCommand encapsulates the common logic for facts-file-based CLI
// commands: load and decode the facts file, run the scoring operation, then
// format and write the result.
func RunScoreCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	factsFile string,
	maxFileSize int64,
	operation ScoreOperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	facts, err := fileProcessor.LoadFacts(factsFile, maxFileSize)
	if err != nil {
		return err
	}

	logDetails(facts, cmdConfig)

	result, err := operation(ctx, facts)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
