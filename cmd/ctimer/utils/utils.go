package utils

import (
	"os"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// InstanceId tags every log line of one invocation, so interleaved runs
// sharing a stderr stream can be told apart.
var InstanceId = gonanoid.MustGenerate("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", 12)

// FileExists returns true if the specified path exists and is actually a
// file (not a directory).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
