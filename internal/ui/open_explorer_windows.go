//go:build windows

package ui

import "os/exec"

// openInFileManager reveals path in Windows Explorer
func openInFileManager(path string) error {
	return exec.Command("explorer.exe", "/select,", path).Start()
}
