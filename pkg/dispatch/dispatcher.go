package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/miktos/nexus-dispatch/pkg/events"
	"github.com/miktos/nexus-dispatch/pkg/matcher"
	"github.com/miktos/nexus-dispatch/pkg/skill"
)

const logPrefix = "dispatch:dispatcher"

// Dispatcher is the composition root for a single request: match the command,
// validate the candidate's parameters, execute, respond. It is stateless
// across requests; the registry and rule set it holds are read-only, so one
// Dispatcher serves concurrent callers without synchronization.
type Dispatcher struct {
	registry  *skill.Registry
	matcher   *matcher.Matcher
	executor  *Executor
	publisher events.EventPublisher
}

// NewDispatcherParams holds parameters for NewDispatcher.
type NewDispatcherParams struct {
	Registry *skill.Registry
	Matcher  *matcher.Matcher
	// Publisher receives a DispatchedEvent per dispatch; nil means no events.
	Publisher events.EventPublisher
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(params NewDispatcherParams) *Dispatcher {
	pub := params.Publisher
	if pub == nil {
		pub = &events.NoOpPublisher{}
	}
	return &Dispatcher{
		registry:  params.Registry,
		matcher:   params.Matcher,
		executor:  NewExecutor(),
		publisher: pub,
	}
}

// Dispatch runs the full pipeline for one command and returns its response
// envelope. Dispatch is total: every call, including empty or adversarial
// input, returns exactly one well-formed envelope and never panics.
func (d *Dispatcher) Dispatch(ctx context.Context, command string) *Envelope {
	env, _ := d.DispatchWithMatch(ctx, command)
	return env
}

// DispatchWithMatch is Dispatch plus the match result, for transports that
// report the resolved skill and confidence alongside the envelope.
func (d *Dispatcher) DispatchWithMatch(ctx context.Context, command string) (env *Envelope, res matcher.MatchResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error(fmt.Sprintf("%s - recovered panic: %v", logPrefix, r))
			env = errorEnvelope(fmt.Sprintf("internal fault: %v", r), KindEngineError, "", time.Since(start).Seconds())
		}
		d.publish(ctx, command, res, env)
	}()

	res = d.matcher.Match(command)
	if !res.Matched {
		slog.Debug(fmt.Sprintf("%s - no rule fired for command %q", logPrefix, command))
		return errorEnvelope("no skill matches the command", KindNoMatchingSkill, "", time.Since(start).Seconds()), res
	}

	spec, err := d.registry.Resolve(res.Skill)
	if err != nil {
		// Matcher and registry are meant to stay consistent; handle the miss
		// defensively rather than trusting that.
		slog.Warn(fmt.Sprintf("%s - rule matched unregistered skill %q", logPrefix, res.Skill))
		return errorEnvelope(err.Error(), KindUnknownSkill, res.Skill, time.Since(start).Seconds()), res
	}

	params, err := skill.Validate(spec, res.Params)
	if err != nil {
		var verr *skill.ValidationError
		if errors.As(err, &verr) {
			return errorEnvelope(verr.Message, verr.Kind, verr.Field, time.Since(start).Seconds()), res
		}
		return errorEnvelope(err.Error(), skill.KindTypeMismatch, "", time.Since(start).Seconds()), res
	}

	return d.executor.Execute(ctx, spec, params), res
}

// publish hands the dispatch outcome to the event publisher. Publish failures
// are logged and swallowed; events never affect the response.
func (d *Dispatcher) publish(ctx context.Context, command string, res matcher.MatchResult, env *Envelope) {
	if env == nil {
		return
	}
	event := &events.DispatchedEvent{
		Command:       command,
		Skill:         res.Skill,
		Category:      res.Category,
		Status:        env.Status,
		Confidence:    res.Confidence,
		ExecutionTime: env.ExecutionTime,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if env.Error != nil {
		event.ErrorKind = env.Error.Kind
	}
	if err := d.publisher.PublishDispatched(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish dispatch event: %v", logPrefix, err))
	}
}
