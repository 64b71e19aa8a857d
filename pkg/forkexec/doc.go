// Package forkexec duplicates the current process and replaces the
// duplicate with a target program, arming a processor-time deadline
// strictly between the fork and the execve.
//
// The deadline is an ITIMER_PROF profiling timer: it decrements while the
// process executes or while the kernel executes on its behalf, and it is
// inherited across execve, so it covers the target program from its first
// instruction. When the accumulated processor time reaches the budget the
// kernel delivers SIGPROF to the child.
//
// If any child-side step fails (setitimer or execve), the duplicate kills
// itself with SIGQUIT. The parent can therefore tell a launch failure
// apart from the target program's own termination and from the deadline,
// as long as the target does not use SIGPROF or SIGQUIT for its own
// purposes. That collision is inherent to signal-based disambiguation and
// is not detected.
//
// The package only builds on Linux. The raw clone sequence, the signal
// constants and the kilobyte ru_maxrss unit assumed by its callers are
// all tied to the Linux kernel.
package forkexec
