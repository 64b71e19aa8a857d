package forkexec

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// kernelSigaction mirrors the kernel's struct sigaction for rt_sigaction.
// The zero value restores the default disposition (SIG_DFL).
type kernelSigaction struct {
	Handler  uintptr
	Flags    uint64
	Restorer uintptr
	Mask     uint64
}

// Reference to src/syscall/exec_linux.go
//
//go:norace
func forkAndExecInChild(argv0 *byte, argv, env []*byte, it *unix.Itimerval) (r1 uintptr, err1 syscall.Errno) {
	var (
		pid       uintptr
		dflAction kernelSigaction
		emptyMask uint64
	)

	// Acquire the fork lock so that no other threads
	// create new fds that are not yet close-on-exec
	// before we fork.
	syscall.ForkLock.Lock()

	// About to call fork.
	// No more allocation or calls of non-assembly functions.
	beforeFork()

	r1, _, err1 = syscall.RawSyscall6(syscall.SYS_CLONE, uintptr(syscall.SIGCHLD), 0, 0, 0, 0, 0)
	if err1 != 0 || r1 != 0 {
		// in parent process, immediate return
		return
	}

	// In child process
	afterForkInChild()
	// Notice: cannot call any GO functions beyond this point

	// Arm the processor-time deadline before the program image is
	// replaced, so it applies to the target's full lifetime.
	_, _, err1 = syscall.RawSyscall(unix.SYS_SETITIMER, uintptr(unix.ITIMER_PROF), uintptr(unsafe.Pointer(it)), 0)
	if err1 != 0 {
		goto childerror
	}

	_, _, err1 = syscall.RawSyscall(unix.SYS_EXECVE,
		uintptr(unsafe.Pointer(argv0)),
		uintptr(unsafe.Pointer(&argv[0])),
		uintptr(unsafe.Pointer(&env[0])))

childerror:
	// A failed deadline or execve must never leave the duplicate running:
	// raise the launch-failure signal against self so the parent can
	// attribute the termination to launch setup. The inherited runtime
	// handler for SIGQUIT has to be reset to its default disposition
	// first, and the signal unblocked, or the self-kill would be
	// intercepted. The exit syscall is the backstop in case the kill
	// still does not terminate us.
	syscall.RawSyscall6(unix.SYS_RT_SIGACTION, uintptr(syscall.SIGQUIT),
		uintptr(unsafe.Pointer(&dflAction)), 0, _NSIG_BYTES, 0, 0)
	syscall.RawSyscall6(unix.SYS_RT_SIGPROCMASK, _SIG_SETMASK,
		uintptr(unsafe.Pointer(&emptyMask)), 0, _NSIG_BYTES, 0, 0)
	pid, _, _ = syscall.RawSyscall(syscall.SYS_GETPID, 0, 0, 0)
	for {
		syscall.RawSyscall(syscall.SYS_KILL, pid, uintptr(syscall.SIGQUIT), 0)
		syscall.RawSyscall(syscall.SYS_EXIT, uintptr(err1), 0, 0)
	}
	// cannot reach this point
}
