package interfaces

import (
	"context"

	"bingx-trading-bot/internal/types"
)

type Engine interface {
	Step(ctx context.Context) (*types.StepResult, error)
}
