package execute

import "os"

// maxRssKb normalizes the peak resident set size to kilobytes. Linux
// reports ru_maxrss in kilobytes already. Setting RUSAGE_SIZE_BYTES
// forces the byte interpretation at runtime, for environments where the
// kernel reports bytes instead.
func maxRssKb(maxrss int64) int64 {
	if _, ok := os.LookupEnv("RUSAGE_SIZE_BYTES"); ok {
		return maxrss / 1024
	}
	return maxrss
}
