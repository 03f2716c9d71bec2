package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tangerg/codewiki/internal/sse"
)

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <file>",
		Short: "Print a transcript recorded by `run --record`",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	reasoning := color.New(color.FgHiBlack)
	delta := color.New(color.FgWhite)

	dec := sse.NewDecoder(f)
	for dec.Next() {
		msg := dec.Current()
		switch msg.Event {
		case "reasoning":
			reasoning.Fprint(cmd.OutOrStdout(), string(msg.Data))
		default:
			delta.Fprint(cmd.OutOrStdout(), string(msg.Data))
		}
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return dec.Err()
}
