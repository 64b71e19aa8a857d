package execute

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/proctor-dev/ctimer/cmd/ctimer/entities"
	"github.com/proctor-dev/ctimer/pkg/forkexec"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Execute runs one supervision: it forks the child with the deadline
// armed, blocks until the child terminates, collects the accumulated
// resource usage of waited-for children and classifies the outcome.
//
// A failed execve in the child is not an error here: it surfaces as the
// "quit" outcome in the report, because a missing or non-executable
// target is an expected operational result. Errors are reserved for
// engine failures (fork, wait, accounting) where no trustworthy report
// can exist.
func Execute(logger *logrus.Entry, config *entities.SupervisionConfig) (*entities.Report, error) {
	budgetMs := config.EffectiveTimeLimitMs()

	// execvp semantics: resolve the program through PATH in the parent,
	// where lookups are still safe. If resolution fails the raw path is
	// kept and the execve failure becomes a reportable launch failure.
	path := config.Command[0]
	if resolved, err := exec.LookPath(path); err == nil {
		path = resolved
	}

	runner := forkexec.Runner{
		Path:         path,
		Args:         config.Command,
		Env:          os.Environ(),
		TimeBudgetMS: budgetMs,
	}
	pid, err := runner.Start()
	if err != nil {
		return nil, fmt.Errorf("Error forking the supervised child: %w", err)
	}
	logger.WithField("pid", pid).Debugf("Child forked: %s", strings.Join(config.Command, " "))

	var wstatus unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &wstatus, 0, nil)
		if err == nil {
			break
		}
		if err != unix.EINTR {
			return nil, fmt.Errorf("Error waiting for the supervised child: %w", err)
		}
	}

	// The child and any descendants it reaped itself are accounted to
	// the children scope; the parent's own work is excluded. Read only
	// after the wait above confirmed termination.
	var rusage unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &rusage); err != nil {
		return nil, fmt.Errorf("Error reading the child resource usage: %w", err)
	}

	report := makeSupervisionReport(&supervisionReportProps{
		budgetMs: budgetMs,
		pid:      pid,
		wstatus:  wstatus,
		rusage:   &rusage,
	})
	logger.WithField("pid", pid).Debugf("Child terminated: %s", report.Exit.Type)

	return report, nil
}
