package shell

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

func (s *Session) buildAdd(cmd *cobra.Command) {
	cmd.Args = usageArgs(cobra.MatchAll(cobra.ExactArgs(1), nonEmptyArgs))

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		e := vault.NewEntry(args[0])
		s.root().AddEntry(e)
		s.commit(cmd.Context(), e)

		s.log.Info(cmd.Context(), "entry added", "id", e.ID)
		s.out.success("Added entry %s", e.ID)
		return nil
	}
}
