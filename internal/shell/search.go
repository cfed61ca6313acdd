package shell

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

func (s *Session) buildSearch(cmd *cobra.Command) {
	cmd.Args = usageArgs(cobra.ExactArgs(1))

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		matches := vault.Search(s.root(), args[0])
		if len(matches) == 0 {
			s.out.faint("No matches")
			return nil
		}

		tbl := newTable()
		for _, m := range matches {
			tbl.AddRow(m.EntryID, m.Field, m.Value)
		}
		s.out.table(tbl)
		return nil
	}
}
