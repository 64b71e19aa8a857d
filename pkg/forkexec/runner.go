package forkexec

// Runner configures a single supervised fork + execve. The zero budget is
// rejected by Start: callers map their "unbounded" sentinel to an
// effectively infinite value instead, so a timer is always armed and the
// signal semantics stay uniform.
type Runner struct {
	// Path is the file passed to execve. If empty, Args[0] is used.
	// PATH resolution, if wanted, happens in the parent before Start.
	Path string

	// Args is the argv for the target program, passed through verbatim.
	// Args[0] is conventionally the program name.
	Args []string

	// Env is the environment for the target program.
	Env []string

	// TimeBudgetMS is the processor-time budget in milliseconds armed
	// with setitimer(ITIMER_PROF) in the child before execve.
	TimeBudgetMS uint32
}
