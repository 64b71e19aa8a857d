package forkexec

import "syscall"

// prepareExec prepares execve parameters
func prepareExec(path string, args, env []string) (*byte, []*byte, []*byte, error) {
	// make exec path
	argv0, err := syscall.BytePtrFromString(path)
	if err != nil {
		return nil, nil, nil, err
	}
	// make exec args
	argv, err := syscall.SlicePtrFromStrings(args)
	if err != nil {
		return nil, nil, nil, err
	}
	// make env
	envv, err := syscall.SlicePtrFromStrings(env)
	if err != nil {
		return nil, nil, nil, err
	}
	return argv0, argv, envv, nil
}
