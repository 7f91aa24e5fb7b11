// Package sandbox executes caller-supplied scripts against a dataset in an
// external interpreter process. Execution is bounded by a wall-clock timeout
// and the result is opaque text, success or failure alike.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/KaramelBytes/dataloom/internal/dataset"
)

// Runner launches one interpreter process per script.
type Runner struct {
	Command string        // interpreter binary, e.g. "python3"
	Timeout time.Duration // wall-clock bound per run
}

// Result carries the combined interpreter output. TimedOut and ExitCode let
// callers distinguish script bugs from runaway scripts without parsing text.
type Result struct {
	Output   string `json:"output"`
	ExitCode int    `json:"exit_code"`
	TimedOut bool   `json:"timed_out"`
	Duration string `json:"duration"`
}

// payload is what the script receives on stdin: the dataset as parallel
// column arrays of native values.
type payload struct {
	Dataset string           `json:"dataset"`
	Columns []string         `json:"columns"`
	Rows    int              `json:"rows"`
	Data    map[string][]any `json:"data"`
}

func New(command string, timeout time.Duration) *Runner {
	if command == "" {
		command = "python3"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{Command: command, Timeout: timeout}
}

// Run feeds the dataset to the interpreter as JSON on stdin, with the script
// passed via -c. Stdout and stderr are interleaved in the result; a non-zero
// exit or a timeout is reported in the result, not as an error. The returned
// error covers only failures to launch the interpreter at all.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset, script string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	data := make(map[string][]any, len(ds.Columns))
	for _, c := range ds.Columns {
		col := make([]any, len(ds.Rows))
		for i, row := range ds.Rows {
			col[i] = row[c].Native()
		}
		data[c] = col
	}
	in, err := json.Marshal(payload{
		Dataset: ds.Name,
		Columns: ds.Columns,
		Rows:    len(ds.Rows),
		Data:    data,
	})
	if err != nil {
		return nil, fmt.Errorf("encode dataset payload: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.Command, "-c", script)
	cmd.Stdin = bytes.NewReader(in)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	runErr := cmd.Run()
	res := &Result{
		Output:   out.String(),
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}
	if ctx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		res.ExitCode = -1
		res.Output += fmt.Sprintf("\n[script terminated after %s]", r.Timeout)
		return res, nil
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("launch %s: %w", r.Command, runErr)
	}
	return res, nil
}
