//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup tears down pid and its children with taskkill /T (tree
// kill) /F (force). Errors are discarded; the caller has its own fallback
// kill.
func KillProcessGroup(pid int) {
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
