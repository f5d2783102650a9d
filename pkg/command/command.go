// Package command provides an interface and implementations for shell commands
// which allow for easy testing and mocking.
//
// It follows the instructions at https://stackoverflow.com/a/74671137/351590
// and https://github.com/schollii/go-test-mock-exec-command which makes use
// of polymorphism to achieve proper testing and mocking.
package command

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// IShellCommand is an interface for running shell commands.
type IShellCommand interface {
	Output() ([]byte, error)
	RunProgressive() error
	String() string
}

// ExecShellCommand implements IShellCommand.
type ExecShellCommand struct {
	*exec.Cmd
}

// RunProgressive runs the command attached to the terminal, so its output
// and any sudo password prompt reach the user.
func (cmd ExecShellCommand) RunProgressive() error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// NewExecShellCommander returns a command instance.
func NewExecShellCommander(name string, arg ...string) IShellCommand {
	execCmd := exec.Command(name, arg...)
	return ExecShellCommand{Cmd: execCmd}
}

// ShellCommander provides a wrapper around the commander to allow for better
// testing and mocking.
var ShellCommander = NewExecShellCommander

// Sudo runs name with arg through sudo.
func Sudo(name string, arg ...string) IShellCommand {
	return ShellCommander("sudo", append([]string{name}, arg...)...)
}

// GetMsgFromCommandError adds whatever the command wrote to stderr to err.
func GetMsgFromCommandError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := strings.TrimSpace(string(exitErr.Stderr)); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
	}
	return err
}
