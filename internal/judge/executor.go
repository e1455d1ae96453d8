//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=../mocks/mock_executor.go -package=mocks
package judge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/dkeye/CodeRoom/internal/telemetry"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultMaxOutput = 64 << 10
)

var ErrTimeout = errors.New("execution timed out")

// Result is what a run produced. Truncated is set when stdout or stderr
// went past the output cap.
type Result struct {
	Stdout    string        `json:"stdout"`
	Stderr    string        `json:"stderr"`
	ExitCode  int           `json:"exit_code"`
	Duration  time.Duration `json:"duration"`
	Truncated bool          `json:"truncated"`
}

// Executor runs untrusted source with optional stdin. A run that exceeds
// timeout is killed and reported as ErrTimeout. A non-zero exit is not an
// error; it is reported through Result.ExitCode.
type Executor interface {
	Execute(ctx context.Context, source, stdin string, timeout time.Duration) (Result, error)
}

type ProcessConfig struct {
	// Interpreter is the command line the source file path is appended to.
	Interpreter   []string
	SourceName    string
	WorkDir       string
	MaxConcurrent int64
	MaxOutput     int
}

// ProcessExecutor runs every job as a separate OS process in its own
// scratch directory.
type ProcessExecutor struct {
	cfg ProcessConfig
	sem *semaphore.Weighted
}

func NewProcessExecutor(cfg ProcessConfig) *ProcessExecutor {
	if len(cfg.Interpreter) == 0 {
		cfg.Interpreter = []string{"python3"}
	}
	if cfg.SourceName == "" {
		cfg.SourceName = "main.py"
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.MaxOutput <= 0 {
		cfg.MaxOutput = DefaultMaxOutput
	}
	return &ProcessExecutor{cfg: cfg, sem: semaphore.NewWeighted(cfg.MaxConcurrent)}
}

func (e *ProcessExecutor) Execute(ctx context.Context, source, stdin string, timeout time.Duration) (Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("acquire exec slot: %w", err)
	}
	defer e.sem.Release(1)

	jobID := uuid.NewString()
	jobPath := filepath.Join(e.cfg.WorkDir, "coderoom-"+jobID)
	if err := os.MkdirAll(jobPath, 0o700); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("prepare job dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(jobPath); err != nil {
			log.Warn().Err(err).Str("module", "judge").Str("job", jobID).Msg("cleanup job dir")
		}
	}()

	sourcePath := filepath.Join(jobPath, e.cfg.SourceName)
	if err := os.WriteFile(sourcePath, []byte(source), 0o600); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("write source: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string{}, e.cfg.Interpreter[1:]...), sourcePath)
	cmd := exec.CommandContext(execCtx, e.cfg.Interpreter[0], args...)
	cmd.Dir = jobPath
	cmd.Env = []string{"PATH=" + os.Getenv("PATH"), "TMPDIR=" + jobPath, "HOME=" + jobPath}
	cmd.Stdin = strings.NewReader(stdin)
	// The kill targets the whole process group so forked children die too.
	killProcessGroup(cmd)
	// Children that inherit the pipes must not keep Wait blocked past the kill.
	cmd.WaitDelay = time.Second

	stdout := &cappedBuffer{limit: e.cfg.MaxOutput}
	stderr := &cappedBuffer{limit: e.cfg.MaxOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	started := time.Now()
	err := cmd.Run()
	res := Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  time.Since(started),
		Truncated: stdout.truncated || stderr.truncated,
	}
	telemetry.ExecDuration.Observe(res.Duration.Seconds())

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			res.ExitCode = -1
			log.Info().Str("module", "judge").Str("job", jobID).Dur("timeout", timeout).Msg("execution timed out")
			return res, ErrTimeout
		case ctx.Err() != nil:
			res.ExitCode = -1
			return res, fmt.Errorf("execute: %w", ctx.Err())
		case errors.As(err, &exitErr):
			res.ExitCode = exitErr.ExitCode()
		default:
			res.ExitCode = -1
			return res, fmt.Errorf("execute: %w", err)
		}
	}

	log.Debug().Str("module", "judge").Str("job", jobID).Int("exit", res.ExitCode).Dur("took", res.Duration).
		Bool("truncated", res.Truncated).Msg("execution finished")
	return res, nil
}

// cappedBuffer keeps the first limit bytes and discards the rest, so a
// chatty program is not killed by a broken pipe. Callers check truncated.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string { return b.buf.String() }
