//go:build !tinygo && windows

package hal

import "os"

// reexec starts a fresh copy of the process; the caller exits afterwards.
func reexec(exe string, args, env []string) error {
	p, err := os.StartProcess(exe, args, &os.ProcAttr{
		Env:   env,
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	})
	if err != nil {
		return err
	}
	return p.Release()
}
