package action

import (
	"fmt"
	"os/exec"

	log "github.com/sirupsen/logrus"

	"github.com/salsadigitalauorg/tidepool/pkg/command"
)

// LookPath finds binaries; swapped out in tests.
var LookPath = exec.LookPath

// BinaryExists checks that Bin is on the $PATH and answers VersionArgs.
type BinaryExists struct {
	Stage       string
	Bin         string
	VersionArgs []string
}

func (b BinaryExists) GetStage() string {
	if b.Stage == "" {
		return "init"
	}
	return b.Stage
}

func (b BinaryExists) Execute() error {
	logger := log.WithFields(log.Fields{
		"stage": b.GetStage(),
		"bin":   b.Bin,
	})

	absPath, err := LookPath(b.Bin)
	if err != nil {
		return fmt.Errorf("could not find %s; please ensure it is installed "+
			"and can be found in the $PATH: %w", b.Bin, err)
	}
	if len(b.VersionArgs) == 0 {
		logger.WithField("path", absPath).Debug("found binary")
		return nil
	}

	out, err := command.ShellCommander(absPath, b.VersionArgs...).Output()
	if err != nil {
		return fmt.Errorf("error getting %s version: %w", b.Bin, command.GetMsgFromCommandError(err))
	}
	logger.WithField("result", string(out)).Debug("fetched version")
	return nil
}
