//go:build unix

package judge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processAlive treats zombies as gone; they no longer run user code.
func processAlive(pid int) bool {
	if err := syscall.Kill(pid, 0); errors.Is(err, syscall.ESRCH) {
		return false
	}
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return !os.IsNotExist(err)
	}
	fields := strings.Fields(string(stat[strings.LastIndexByte(string(stat), ')')+1:]))
	return len(fields) == 0 || fields[0] != "Z"
}

func TestProcessExecutor_TimeoutKillsBackgroundChildren(t *testing.T) {
	t.Parallel()
	e := shellExecutor(t, 0)

	res, err := e.Execute(context.Background(), "sleep 60 & echo $!; wait", "", 500*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)

	pid, perr := strconv.Atoi(strings.TrimSpace(res.Stdout))
	require.NoError(t, perr, "stdout %q", res.Stdout)
	assert.Eventually(t, func() bool { return !processAlive(pid) }, 3*time.Second, 50*time.Millisecond)
}
