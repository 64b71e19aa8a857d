package forkexec

import (
	"os"
	"syscall"
	"testing"

	"golang.org/x/sys/unix"
)

func waitFor(t *testing.T, pid int) unix.WaitStatus {
	t.Helper()
	var wstatus unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &wstatus, 0, nil)
		if err == nil {
			return wstatus
		}
		if err != unix.EINTR {
			t.Fatalf("wait4: %v", err)
		}
	}
}

func TestStart_OK(t *testing.T) {
	r := Runner{
		Args:         []string{"/bin/echo", "hello"},
		Env:          os.Environ(),
		TimeBudgetMS: 10000,
	}
	pid, err := r.Start()
	if err != nil {
		t.Fatal(err)
	}
	ws := waitFor(t, pid)
	if !ws.Exited() || ws.ExitStatus() != 0 {
		t.Fatalf("unexpected wait status: %v", ws)
	}
}

func TestStart_ExecNotFound(t *testing.T) {
	r := Runner{
		Args:         []string{"/nonexistent/program"},
		Env:          os.Environ(),
		TimeBudgetMS: 10000,
	}
	pid, err := r.Start()
	if err != nil {
		t.Fatal(err)
	}
	ws := waitFor(t, pid)
	if !ws.Signaled() || ws.Signal() != unix.SIGQUIT {
		t.Fatalf("expected SIGQUIT termination, got: %v", ws)
	}
}

func TestStart_DeadlineFires(t *testing.T) {
	r := Runner{
		Args:         []string{"/bin/sh", "-c", "while :; do :; done"},
		Env:          os.Environ(),
		TimeBudgetMS: 100,
	}
	pid, err := r.Start()
	if err != nil {
		t.Fatal(err)
	}
	ws := waitFor(t, pid)
	if !ws.Signaled() || ws.Signal() != unix.SIGPROF {
		t.Fatalf("expected SIGPROF termination, got: %v", ws)
	}
}

func TestStart_ZeroBudgetRejected(t *testing.T) {
	r := Runner{
		Args: []string{"/bin/echo"},
		Env:  os.Environ(),
	}
	if _, err := r.Start(); err != syscall.EINVAL {
		t.Fatalf("expected EINVAL, got: %v", err)
	}
}

func TestStart_PathOverridesArgv0(t *testing.T) {
	r := Runner{
		Path:         "/bin/echo",
		Args:         []string{"echo", "hello"},
		Env:          os.Environ(),
		TimeBudgetMS: 10000,
	}
	pid, err := r.Start()
	if err != nil {
		t.Fatal(err)
	}
	ws := waitFor(t, pid)
	if !ws.Exited() || ws.ExitStatus() != 0 {
		t.Fatalf("unexpected wait status: %v", ws)
	}
}
