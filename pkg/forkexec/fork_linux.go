package forkexec

import (
	"syscall"
	_ "unsafe" // required for go:linkname.

	"golang.org/x/sys/unix"
)

//go:linkname beforeFork syscall.runtime_BeforeFork
func beforeFork()

//go:linkname afterFork syscall.runtime_AfterFork
func afterFork()

//go:linkname afterForkInChild syscall.runtime_AfterForkInChild
func afterForkInChild()

// Start forks the current process, arms the ITIMER_PROF deadline in the
// duplicate and replaces it with the target program. It returns the
// child's pid; the caller owns the single wait on it.
//
// Fork and deadline arming are one operation here on purpose: the timer
// must be installed before the program image is replaced, and exposing
// the two steps separately would invite ordering bugs.
func (r *Runner) Start() (int, error) {
	if r.TimeBudgetMS == 0 {
		return 0, syscall.EINVAL
	}

	path := r.Path
	if path == "" {
		if len(r.Args) == 0 {
			return 0, syscall.EINVAL
		}
		path = r.Args[0]
	}

	argv0, argv, env, err := prepareExec(path, r.Args, r.Env)
	if err != nil {
		return 0, err
	}

	// NOTE Linux's itimerval only guarantees 32-bit or narrower integers,
	// hence the uint32 budget.
	it := unix.Itimerval{
		Value: unix.Timeval{
			Sec:  int64(r.TimeBudgetMS / 1000),
			Usec: int64(r.TimeBudgetMS%1000) * 1000,
		},
	}

	pid, err1 := forkAndExecInChild(argv0, argv, env, &it)

	// restore all signals
	afterFork()
	syscall.ForkLock.Unlock()

	if err1 != 0 {
		return 0, err1
	}
	return int(pid), nil
}
