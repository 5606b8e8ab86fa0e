package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command.
func NewChatCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the SEO assistant a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			reply, err := app.Assistant.Chat(cmd.Context(), strings.Join(args, " "), sessionID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, reply.Response)
			if len(reply.Sources) > 0 {
				fmt.Fprintf(out, "\nSources: %s\n", strings.Join(reply.Sources, ", "))
			}
			fmt.Fprintf(out, "Session: %s\n", reply.SessionID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session id to continue")
	return cmd
}
