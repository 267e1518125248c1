// Package wininfo discovers the foreground window, best effort. Both
// fields may come back empty; callers must treat absence as normal.
package wininfo

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Active holds whatever could be discovered about the focused window.
type Active struct {
	ProcessName string
	WindowTitle string
}

// Query asks the window system via xdotool and /proc. Every failure path
// yields empty fields, never an error: context discovery is advisory.
func Query(ctx context.Context) Active {
	var a Active

	out, err := exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowname").Output()
	if err == nil {
		a.WindowTitle = strings.TrimSpace(string(out))
	}

	out, err = exec.CommandContext(ctx, "xdotool", "getactivewindow", "getwindowpid").Output()
	if err == nil {
		if pid, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil {
			a.ProcessName = processName(pid)
		}
	}

	return a
}

func processName(pid int) string {
	comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(comm))
}
