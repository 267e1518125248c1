package stt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CLI shells out to a whisper.cpp binary. Fallback backend for hosts
// where the cgo bindings are not built.
type CLI struct {
	execPath  string
	modelPath string
}

func NewCLI(execPath, modelPath string) *CLI {
	return &CLI{execPath: execPath, modelPath: modelPath}
}

func (c *CLI) Transcribe(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, c.execPath, "-m", c.modelPath, "-f", path, "-nt", "-np")
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w", c.execPath, err)
	}
	return out.String(), nil
}

func (c *CLI) Close() error { return nil }
