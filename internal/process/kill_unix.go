//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to pid's process group. The negative PID
// addresses the whole group, so browser child processes go down with the
// launcher. Errors are discarded; the caller has its own fallback kill.
func KillProcessGroup(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
