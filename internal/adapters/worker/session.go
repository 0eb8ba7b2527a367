package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ReporterError is a reporter hook failure that aborted a build.
type ReporterError struct {
	Reporter string
	Err      error
}

func (e *ReporterError) Error() string {
	return domain.ErrLifecycleAborted.Error() + ": reporter " + e.Reporter + ": " + e.Err.Error()
}

func (e *ReporterError) Unwrap() []error {
	return []error{domain.ErrLifecycleAborted, e.Err}
}

// Session runs module builds on workers and drives the registered reporters
// from the worker event stream.
type Session struct {
	logger    ports.Logger
	reporters []ports.Reporter
}

// NewSession creates a session dispatching to reporters in the given order.
func NewSession(logger ports.Logger, reporters ...ports.Reporter) *Session {
	return &Session{logger: logger, reporters: reporters}
}

// Run builds req on w and writes the build tool output to output.
// The returned outcome is always set. err classifies the failure, if any, and
// the disposition tells the caller whether w can be reused.
func (s *Session) Run(
	ctx context.Context,
	w ports.Worker,
	req domain.BuildRequest,
	output io.Writer,
) (outcome domain.BuildOutcome, disposition domain.Disposition, err error) {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	b := &build{
		Session: s,
		bc:      &buildContext{ctx: ctx, req: req, channel: w.Channel()},
		worker:  w,
		output:  output,
	}

	defer func() {
		if r := recover(); r != nil {
			cancel()
			_ = b.bc.tasks.Wait()
			err = zerr.With(zerr.New("build lifecycle panicked"), "panic", r)
			outcome = b.outcome(domain.ResultFailure, err.Error())
			outcome.Duration = time.Since(start)
			disposition = domain.Discard
		}
	}()

	outcome, disposition, err = b.run()
	if disposition == domain.Discard {
		cancel()
	}

	if postErr := b.dispatch(func(r ports.Reporter) error {
		return r.PostBuild(b.bc, &outcome)
	}); postErr != nil {
		if err == nil {
			outcome = aborted(outcome, postErr)
			err = postErr
		} else {
			s.logger.Warn("post build hook failed", "module", outcome.Module, "error", postErr.Error())
		}
	}

	if taskErr := b.bc.tasks.Wait(); taskErr != nil {
		if outcome.Result.IsBetterOrEqual(domain.ResultUnstable) {
			outcome.Result = domain.ResultFailure
			outcome.Cause = taskErr.Error()
		}
		if err == nil {
			err = taskErr
		}
	}

	if outcome.Duration == 0 {
		outcome.Duration = time.Since(start)
	}
	if outcome.FinishedAt.IsZero() {
		outcome.FinishedAt = time.Now()
	}
	return outcome, disposition, err
}

type phase int

const (
	phaseIdle phase = iota
	phaseModule
	phaseStep
	phaseLeft
)

var phaseNames = [...]string{"start", "module entered", "step started", "module left"}

func (p phase) String() string {
	return phaseNames[p]
}

// build is the state of one Session.Run.
type build struct {
	*Session
	bc     *buildContext
	worker ports.Worker
	output io.Writer
	stream ports.BuildStream

	phase     phase
	step      string
	stepStart time.Time
	steps     []domain.StepTiming

	// abort is the first reporter failure. Once set every further lifecycle
	// event is answered with an abort ack.
	abort error
}

func (b *build) run() (domain.BuildOutcome, domain.Disposition, error) {
	if err := b.dispatch(func(r ports.Reporter) error {
		return r.PreBuild(b.bc)
	}); err != nil {
		return aborted(b.outcome(domain.ResultFailure, ""), err), domain.Recycle, err
	}

	stream, err := b.worker.Build(b.bc.ctx, b.bc.req)
	if err != nil {
		return b.broken(err)
	}
	b.stream = stream

	for {
		msg, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("%w: stream ended without an outcome", domain.ErrProtocolViolation)
		}
		if err != nil {
			return b.broken(err)
		}

		switch {
		case msg.Outcome != nil:
			return b.finish(*msg.Outcome)
		case msg.Event == nil:
			return b.broken(fmt.Errorf("%w: empty message", domain.ErrProtocolViolation))
		case !msg.Event.IsLifecycle():
			b.write(msg.Event.Data)
		default:
			if err := b.handle(*msg.Event); err != nil {
				return b.broken(err)
			}
		}
	}
}

// handle checks the lifecycle order, runs the matching hooks and acknowledges ev.
func (b *build) handle(ev domain.Event) error {
	var elapsed time.Duration
	switch ev.Kind {
	case domain.EventModuleEntered:
		if b.phase != phaseIdle && b.phase != phaseLeft {
			return b.unexpected(ev)
		}
		b.phase = phaseModule
	case domain.EventStepStarted:
		if b.phase != phaseModule {
			return b.unexpected(ev)
		}
		b.phase = phaseStep
		b.step = ev.Step
	case domain.EventStepFinished:
		if b.phase != phaseStep || ev.Step != b.step {
			return b.unexpected(ev)
		}
		elapsed = time.Since(b.stepStart)
		b.steps = append(b.steps, domain.StepTiming{Step: ev.Step, Duration: elapsed})
		b.phase = phaseModule
	case domain.EventModuleLeft:
		if b.phase != phaseModule {
			return b.unexpected(ev)
		}
		b.phase = phaseLeft
	case domain.EventReportGenerated:
		if b.phase != phaseModule && b.phase != phaseLeft {
			return b.unexpected(ev)
		}
	default:
		return b.unexpected(ev)
	}

	if b.abort == nil {
		b.abort = b.dispatch(func(r ports.Reporter) error {
			return hook(r, b.bc, ev, elapsed)
		})
	}
	if ev.Kind == domain.EventStepStarted {
		b.stepStart = time.Now()
	}

	ack := domain.Proceed()
	if b.abort != nil {
		ack = domain.Abort(b.abort.Error())
	}
	return b.stream.Ack(ack)
}

func hook(r ports.Reporter, bc ports.BuildContext, ev domain.Event, elapsed time.Duration) error {
	switch ev.Kind {
	case domain.EventModuleEntered:
		return r.PreModule(bc, ev)
	case domain.EventStepStarted:
		return r.PreExecute(bc, ev)
	case domain.EventStepFinished:
		return r.PostExecute(bc, ev, elapsed)
	case domain.EventModuleLeft:
		return r.PostModule(bc, ev)
	case domain.EventReportGenerated:
		return r.ReportGenerated(bc, ev)
	}
	return nil
}

func (b *build) finish(o domain.BuildOutcome) (domain.BuildOutcome, domain.Disposition, error) {
	if b.abort == nil && b.phase != phaseIdle && b.phase != phaseLeft {
		return b.broken(fmt.Errorf("%w: outcome received in phase %s", domain.ErrProtocolViolation, b.phase))
	}
	_ = b.stream.CloseSend()

	o.Module = b.bc.req.Module.ID()
	o.Steps = b.steps
	if b.abort != nil {
		return aborted(o, b.abort), domain.Recycle, b.abort
	}
	return o, domain.Recycle, nil
}

// broken ends a build whose stream cannot be trusted anymore.
func (b *build) broken(err error) (domain.BuildOutcome, domain.Disposition, error) {
	if b.stream != nil {
		_ = b.stream.CloseSend()
	}
	if ctxErr := b.bc.ctx.Err(); ctxErr != nil {
		return b.outcome(domain.ResultAborted, "build canceled"), domain.Discard, zerr.Wrap(ctxErr, "build canceled")
	}
	return b.outcome(domain.ResultFailure, err.Error()), domain.Discard, err
}

func (b *build) unexpected(ev domain.Event) error {
	return fmt.Errorf("%w: unexpected %s in phase %s", domain.ErrProtocolViolation, ev.Kind, b.phase)
}

// dispatch calls fn for every reporter in registration order and stops at the first error.
func (b *build) dispatch(fn func(r ports.Reporter) error) error {
	for _, r := range b.reporters {
		if err := fn(r); err != nil {
			return &ReporterError{Reporter: r.Name(), Err: err}
		}
	}
	return nil
}

func (b *build) write(data []byte) {
	if b.output == nil || len(data) == 0 {
		return
	}
	_, _ = b.output.Write(data)
}

func (b *build) outcome(result domain.Result, cause string) domain.BuildOutcome {
	return domain.BuildOutcome{
		Module: b.bc.req.Module.ID(),
		Result: result,
		Steps:  b.steps,
		Cause:  cause,
	}
}

// aborted turns o into the outcome of a build stopped by a reporter.
func aborted(o domain.BuildOutcome, err error) domain.BuildOutcome {
	o.Result = domain.ResultFailure
	o.Cause = err.Error()
	var re *ReporterError
	if errors.As(err, &re) {
		o.Reporter = re.Reporter
	}
	return o
}

// buildContext implements ports.BuildContext.
type buildContext struct {
	ctx     context.Context
	req     domain.BuildRequest
	channel string
	tasks   errgroup.Group
}

func (c *buildContext) Context() context.Context {
	return c.ctx
}

func (c *buildContext) Request() domain.BuildRequest {
	return c.req
}

func (c *buildContext) Channel() string {
	return c.channel
}

func (c *buildContext) Go(name string, fn func(ctx context.Context) error) {
	c.tasks.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s: panic: %v", domain.ErrAsyncTaskFailed, name, r)
			}
		}()
		if err := fn(c.ctx); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrAsyncTaskFailed, name, err)
		}
		return nil
	})
}
