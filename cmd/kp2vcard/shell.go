package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/editor"
	"github.com/dmitrijs2005/kp2vcard/internal/shell"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open the interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	e, err := setup(cmd)
	if err != nil {
		return err
	}

	ed, err := editor.New(e.cfg.Editor.Command, editor.WithLogger(e.log))
	if err != nil {
		return err
	}

	st, db, creds, err := e.unlock(ctx, cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	defer creds.Wipe()

	sess := shell.NewSession(db, st, creds,
		shell.WithEditor(ed),
		shell.WithLogger(e.log.With("path", st.Path())),
		shell.WithOutput(cmd.OutOrStdout()),
	)
	return sess.Run(ctx, cmd.InOrStdin())
}
