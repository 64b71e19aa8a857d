// Package sink delivers the supervision report: one line of JSON on
// stdout or in a named file, optionally wrapped in a delimiter pair so
// the report can be extracted from a mixed output stream unambiguously.
package sink

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/proctor-dev/ctimer/cmd/ctimer/entities"
	"golang.org/x/sys/unix"
)

// Write serializes the report and writes it to statsFile, or to stdout
// when statsFile is empty. Any failure is a hard failure of the whole
// invocation: a partial or missing report must not look like success.
func Write(report *entities.Report, statsFile, delimiter string) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("Error marshalling the report: %w", err)
	}

	payload := delimiter + string(data) + delimiter + "\n"

	out := os.Stdout
	if statsFile != "" {
		file, err := prepareOutFile(statsFile)
		if err != nil {
			return fmt.Errorf("Error opening the stats file %s: %w", statsFile, err)
		}
		defer file.Close()
		out = file
	}

	if _, err := out.WriteString(payload); err != nil {
		return fmt.Errorf("Error writing the report: %w", err)
	}
	return nil
}

func prepareOutFile(path string) (*os.File, error) {
	modes := os.O_WRONLY | os.O_TRUNC
	if _, err := os.Stat(path); os.IsNotExist(err) {
		modes = modes | os.O_CREATE | os.O_EXCL
	}

	mask := unix.Umask(0)
	file, err := os.OpenFile(path, modes, 0664)
	unix.Umask(mask)
	if err != nil {
		return nil, err
	}
	return file, nil
}
