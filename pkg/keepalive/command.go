package keepalive

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/logging"
)

// CommandTask returns a Task running command, split on whitespace. With the
// default "sudo -n -v" it refreshes cached sudo credentials without ever
// prompting.
func CommandTask(command string) (Task, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, errors.New(errors.ErrKeepAlive, "keep-alive command cannot be empty")
	}

	return func(ctx context.Context) error {
		logging.LogCommand(args[0], args[1:])

		var output bytes.Buffer
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Stdout = &output
		cmd.Stderr = &output
		if err := cmd.Run(); err != nil {
			return errors.Wrapf(err, errors.ErrKeepAlive, "%s failed", command).
				WithDetail("output", strings.TrimSpace(output.String()))
		}
		return nil
	}, nil
}
