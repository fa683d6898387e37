package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/patternkit/multicsv"
	"github.com/patternkit/multicsv/pkg/errorkit"
	"github.com/spf13/cobra"
)

const ErrUnknownCommand errorkit.Error = "unknown command, type .help for the list of commands"

const replHelp = `Commands:
  next [N]   pull the next N values (default 1)
  cursor     show the source and row position
  state      show the iterator state
  source     show the active source
  .help      show this help
  .exit      leave the shell
`

func newReplCommand(app *App) *cobra.Command {
	var flags sourceFlags
	cmd := &cobra.Command{
		Use:   "repl [file...]",
		Short: "Pull values interactively from a single iterator",
		RunE: func(cmd *cobra.Command, args []string) (rErr error) {
			ctx := cmd.Context()
			s, err := app.open(ctx, flags, args)
			if err != nil {
				return err
			}
			defer errorkit.Finish(&rErr, s.Close)

			it, err := app.iterator(ctx, s, flags.Column)
			if err != nil {
				return err
			}
			defer errorkit.Finish(&rErr, it.Close)

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "multicsv> ",
				HistoryFile:     app.Config.HistoryFile,
				InterruptPrompt: "^C",
				EOFPrompt:       ".exit",
				AutoComplete:    newCompleter(),
				Stdin:           app.Stdin,
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			defer errorkit.Finish(&rErr, rl.Close)

			sh := &shell{Iterator: it, Out: cmd.OutOrStdout()}
			fmt.Fprintf(sh.Out, "%d sources, column %q. Type .help for commands.\n", it.Sources().Len(), flags.Column)
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if len(line) == 0 {
						return nil
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				quit, err := sh.Exec(line)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				}
				if quit {
					return nil
				}
			}
		},
	}
	flags.register(cmd, app.Config)
	return cmd
}

func newCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("next"),
		readline.PcItem("cursor"),
		readline.PcItem("state"),
		readline.PcItem("source"),
		readline.PcItem(".help"),
		readline.PcItem(".exit"),
	)
}

// shell executes the commands of the interactive mode against one iterator.
type shell struct {
	Iterator *multicsv.Iterator
	Out      io.Writer
}

func (sh *shell) Exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch strings.ToLower(fields[0]) {
	case ".exit", "exit", "quit":
		return true, nil
	case ".help", "help":
		_, err = io.WriteString(sh.Out, replHelp)
	case "next":
		n := 1
		if 1 < len(fields) {
			n, err = strconv.Atoi(fields[1])
			if err != nil || n < 1 {
				return false, fmt.Errorf("next expects a positive number, got %q", fields[1])
			}
		}
		err = sh.next(n)
	case "cursor":
		_, err = fmt.Fprintln(sh.Out, sh.Iterator.Cursor())
	case "state":
		_, err = fmt.Fprintln(sh.Out, sh.Iterator.State())
	case "source":
		_, err = fmt.Fprintln(sh.Out, sh.Iterator.Source())
	default:
		err = ErrUnknownCommand.F("%s", fields[0])
	}
	return false, err
}

func (sh *shell) next(n int) error {
	for i := 0; i < n; i++ {
		value, ok, err := sh.Iterator.NextValue()
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(sh.Out, "(exhausted)")
			return err
		}
		if _, err := fmt.Fprintln(sh.Out, value); err != nil {
			return err
		}
	}
	return nil
}
