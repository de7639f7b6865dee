package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/miktos/nexus-dispatch/pkg/skill"
)

const executorLogPrefix = "dispatch:executor"

// Executor invokes skill handlers and wraps outcomes in response envelopes.
// Handler faults are caught here, never propagated: an engine error, a
// context deadline, or even a panicking handler all come back as error
// envelopes with execution time populated.
type Executor struct{}

// NewExecutor creates an Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs the skill's handler with validated params. Execution time is
// measured from immediately before invocation to immediately after the
// outcome (success or caught fault) is known, and is reported on every
// envelope, success or error.
func (e *Executor) Execute(ctx context.Context, spec *skill.SkillSpec, params *skill.Params) *Envelope {
	start := time.Now()
	data, err := invoke(ctx, spec, params)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		kind := KindEngineError
		if errors.Is(err, context.DeadlineExceeded) {
			kind = KindTimeout
		}
		slog.Warn(fmt.Sprintf("%s - %s failed after %.4fs: %v", executorLogPrefix, spec.Name, elapsed, err))
		return errorEnvelope(err.Error(), kind, spec.Name, elapsed)
	}

	if data == nil {
		data = map[string]any{}
	}
	return &Envelope{
		Status:        StatusSuccess,
		Message:       fmt.Sprintf("%s completed successfully", spec.Name),
		Data:          data,
		ExecutionTime: elapsed,
	}
}

// invoke scopes the handler call so a panic is converted to an error instead
// of unwinding through the dispatcher.
func invoke(ctx context.Context, spec *skill.SkillSpec, params *skill.Params) (data map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic in %s: %v", spec.Name, r)
		}
	}()
	return spec.Handler(ctx, params)
}
