// Package diag runs an external capture reader over a generated file and
// reports what happened. It never fails the caller.
package diag

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"firestige.xyz/rtpfixture/internal/config"
)

// Status is the outcome of a diagnostic run.
type Status int

const (
	StatusSkipped Status = iota
	StatusOK
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// Result carries the tool's stdout on StatusOK and the cause otherwise.
type Result struct {
	Status Status
	Tool   string
	Args   []string
	Output string
	Err    error
}

// Run invokes cfg.Tool with {file} and {limit} substituted in cfg.Args,
// bounded by cfg.Timeout.
func Run(ctx context.Context, cfg config.VerifyConfig, path string) Result {
	res := Result{Status: StatusSkipped, Tool: cfg.Tool}
	if !cfg.Enabled {
		return res
	}

	toolPath, err := exec.LookPath(cfg.Tool)
	if err != nil {
		res.Status = StatusNotFound
		res.Err = err
		return res
	}

	res.Args = expandArgs(cfg.Args, path, cfg.Limit)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, toolPath, res.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		res.Status = StatusFailed
		res.Output = stdout.String()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.Err = fmt.Errorf("%s timed out after %v", cfg.Tool, cfg.Timeout)
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			res.Err = fmt.Errorf("%w: %s", err, msg)
		} else {
			res.Err = err
		}
		return res
	}

	res.Status = StatusOK
	res.Output = stdout.String()
	return res
}

func expandArgs(args []string, path string, limit int) []string {
	r := strings.NewReplacer("{file}", path, "{limit}", strconv.Itoa(limit))
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = r.Replace(a)
	}
	return out
}
