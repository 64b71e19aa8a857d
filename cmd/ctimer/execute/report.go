package execute

import (
	"strconv"
	"syscall"

	"github.com/proctor-dev/ctimer/cmd/ctimer/entities"
	"golang.org/x/sys/unix"
)

// Signals reserved by the engine. SIGPROF is what an expired ITIMER_PROF
// delivers; SIGQUIT is what the launcher raises against itself when it
// fails before the program image is loaded. A target program raising
// either signal for its own reasons is indistinguishable from these
// cases; POSIX termination status carries no sender information.
const (
	deadlineSignal      = unix.SIGPROF
	launchFailureSignal = unix.SIGQUIT
)

type supervisionReportProps struct {
	budgetMs uint32
	pid      int
	wstatus  unix.WaitStatus
	rusage   *unix.Rusage
}

// makeSupervisionReport classifies the raw wait status into exactly one
// outcome and folds in the collected resource usage. First match wins;
// anything unclassifiable degrades to "unknown" instead of failing, so a
// report always exists once a child was launched.
func makeSupervisionReport(props *supervisionReportProps) *entities.Report {
	var exit entities.ExitInfo

	switch status := props.wstatus; {
	case status.Exited():
		code := int64(status.ExitStatus())
		exit = entities.ExitInfo{
			Type: entities.ExitTypeReturn,
			Repr: &code,
			Desc: "exit code",
		}
	case status.Signaled():
		switch sig := status.Signal(); sig {
		case deadlineSignal:
			// The signal carries no information beyond "budget reached",
			// so the budget is reported instead of the signal number.
			budget := int64(props.budgetMs)
			exit = entities.ExitInfo{
				Type: entities.ExitTypeTimeout,
				Repr: &budget,
				Desc: "child runtime limit (ms)",
			}
		case launchFailureSignal:
			exit = entities.ExitInfo{
				Type: entities.ExitTypeQuit,
				Desc: "child error before exec",
			}
		default:
			num := int64(sig)
			exit = entities.ExitInfo{
				Type: entities.ExitTypeSignal,
				Repr: &num,
				Desc: signalDesc(sig),
			}
		}
	default:
		exit = entities.ExitInfo{
			Type: entities.ExitTypeUnknown,
			Desc: "unknown",
		}
	}

	user := timevalToMs(props.rusage.Utime)
	sys := timevalToMs(props.rusage.Stime)

	return &entities.Report{
		Pid:      props.pid,
		MaxRssKb: maxRssKb(props.rusage.Maxrss),
		Exit:     exit,
		TimesMs: entities.Times{
			Total: user + sys,
			User:  user,
			Sys:   sys,
		},
	}
}

// timevalToMs divides the microsecond counter before anything is
// multiplied, so long-running children cannot overflow the conversion.
func timevalToMs(tv unix.Timeval) float64 {
	return float64(tv.Sec)*1000 + float64(tv.Usec)/1000
}

func signalDesc(sig syscall.Signal) string {
	if name := unix.SignalName(sig); name != "" {
		return name
	}
	return "signal " + strconv.Itoa(int(sig))
}
