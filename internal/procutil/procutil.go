// Package procutil provides the process/user-lookup collaborators described
// in §6: current PID, liveness checks, a "become this program" exec
// replacement, and host OS user/group queries.
//
// Grounded on original_source's os/process/unix.rs (current_pid, is_alive,
// become_exec_command) and os/users/mod.rs (get_current_username and
// friends). golang.org/x/sys/unix stands in for the source's direct libc
// calls; os/user (stdlib) covers user/group lookups, since no pack
// dependency covers OS user lookups more idiomatically. Ambient glue outside
// the correctness-critical core (§1, §5).
package procutil

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// CurrentPID returns the process identifier of the calling process.
func CurrentPID() int { return unix.Getpid() }

// IsAlive reports whether a process with the given pid is running, using
// kill(pid, 0) semantics: ESRCH means not running, EPERM means running but
// owned by another user, anything else is treated as not running.
func IsAlive(pid int) bool {
	err := unix.Kill(pid, 0)
	if err == nil {
		return true
	}
	return err == unix.EPERM
}

// BecomeCommand execs command with args in place of the current process
// image, matching the source's become_exec_command. On success this
// function never returns; on failure it returns the exec error.
func BecomeCommand(command string, args []string) error {
	argv := append([]string{command}, args...)
	return syscall.Exec(command, argv, os.Environ())
}

// CurrentUsername returns the invoking user's username.
func CurrentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("lookup current user: %w", err)
	}
	return u.Username, nil
}

// CurrentGroupname returns the invoking user's primary group name.
func CurrentGroupname() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("lookup current user: %w", err)
	}
	g, err := user.LookupGroupId(u.Gid)
	if err != nil {
		return "", fmt.Errorf("lookup group %s: %w", u.Gid, err)
	}
	return g.Name, nil
}

// UIDByName resolves a username to a numeric UID.
func UIDByName(name string) (int, bool) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, false
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, false
	}
	return uid, true
}

// GIDByName resolves a group name to a numeric GID.
func GIDByName(name string) (int, bool) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, false
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, false
	}
	return gid, true
}

// HomeForUser returns the home directory configured for the named user.
func HomeForUser(name string) (string, bool) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", false
	}
	return u.HomeDir, true
}
