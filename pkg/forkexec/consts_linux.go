package forkexec

// defines missing consts from the syscall package
const (
	_SIG_SETMASK = 2

	// size of the kernel sigset_t passed to rt_sigaction / rt_sigprocmask
	_NSIG_BYTES = 8
)
