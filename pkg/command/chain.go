package command

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

type ChainCommand struct {
	Stage   string
	Command IShellCommand
}

// Chain runs commands in order, attached to the terminal, and stops at the
// first failure.
type Chain struct {
	Commands []ChainCommand
}

func (c *Chain) Add(stage string, cmd IShellCommand) *Chain {
	c.Commands = append(c.Commands, ChainCommand{Stage: stage, Command: cmd})
	return c
}

func (c *Chain) Exec() error {
	for _, cc := range c.Commands {
		log.WithFields(log.Fields{
			"stage":   cc.Stage,
			"command": cc.Command.String(),
		}).Debug("running command")
		if err := cc.Command.RunProgressive(); err != nil {
			return fmt.Errorf("%s: %w", cc.Stage, GetMsgFromCommandError(err))
		}
	}
	return nil
}
