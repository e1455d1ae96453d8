package judge

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/telemetry"
)

// Reasons reported in Verdict.Error when a submission fails closed.
const (
	ReasonNoQuestion  = "no_question"
	ReasonTimeout     = "timeout"
	ReasonExecError   = "execution_error"
	ReasonOutputLimit = "output_limit"
)

const maxErrorText = 2 << 10

// Verdict is the outcome of grading one submission.
type Verdict struct {
	Passed bool
	Output string
	Error  string
}

type Judge struct {
	exec    Executor
	timeout time.Duration
}

func New(exec Executor, timeout time.Duration) *Judge {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Judge{exec: exec, timeout: timeout}
}

// Run executes code with no grading.
func (j *Judge) Run(ctx context.Context, code, input string) (Result, error) {
	return j.exec.Execute(ctx, code, input, j.timeout)
}

// Grade runs code and compares its output with q's answer. Anything other
// than a clean run with matching output is a failure.
func (j *Judge) Grade(ctx context.Context, q *domain.Question, code, input string) Verdict {
	if q == nil {
		telemetry.Submissions.WithLabelValues(ReasonNoQuestion).Inc()
		return Verdict{Error: ReasonNoQuestion}
	}

	res, err := j.Run(ctx, code, input)
	switch {
	case errors.Is(err, ErrTimeout):
		telemetry.Submissions.WithLabelValues(ReasonTimeout).Inc()
		return Verdict{Output: res.Stdout, Error: ReasonTimeout}
	case err != nil:
		log.Warn().Err(err).Str("module", "judge").Msg("execution failed")
		telemetry.Submissions.WithLabelValues(ReasonExecError).Inc()
		return Verdict{Error: ReasonExecError}
	case res.ExitCode != 0:
		telemetry.Submissions.WithLabelValues(ReasonExecError).Inc()
		return Verdict{Output: res.Stdout, Error: clip(strings.TrimSpace(res.Stderr))}
	case res.Truncated:
		telemetry.Submissions.WithLabelValues(ReasonOutputLimit).Inc()
		return Verdict{Output: res.Stdout, Error: ReasonOutputLimit}
	}

	passed := Normalize(res.Stdout) == Normalize(q.Answer)
	if passed {
		telemetry.Submissions.WithLabelValues("passed").Inc()
	} else {
		telemetry.Submissions.WithLabelValues("failed").Inc()
	}
	return Verdict{Passed: passed, Output: res.Stdout}
}

func clip(s string) string {
	if s == "" {
		return ReasonExecError
	}
	if len(s) > maxErrorText {
		return s[:maxErrorText]
	}
	return s
}
