package engineobs

import (
	"context"

	"bingx-trading-bot/internal/interfaces"
	"bingx-trading-bot/internal/logger"
	"bingx-trading-bot/internal/trace"
	"bingx-trading-bot/internal/types"
)

// observableEngine wraps an Engine with logging and tracing
type observableEngine struct {
	eng interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

// Wrap wraps an engine with observability middleware
func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{eng: eng}
}

func (oe *observableEngine) Step(ctx context.Context) (*types.StepResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Starting decision cycle")

	result, err := oe.eng.Step(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Decision cycle failed", err)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Decision cycle complete",
		"symbol", result.Symbol,
		"signal", result.Signal,
		"price", result.Price,
		"orders", len(result.Orders),
	)
	return result, nil
}
