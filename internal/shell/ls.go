package shell

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

func (s *Session) buildLs(cmd *cobra.Command) {
	var tag string
	cmd.Args = usageArgs(cobra.NoArgs)
	cmd.Flags().StringVar(&tag, "tag", "", "only list entries carrying this tag")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		var pred vault.Predicate
		if cmd.Flags().Changed("tag") {
			pred = vault.HasTag(tag)
		}

		entries := vault.CollectMatching(s.root(), pred)
		if len(entries) == 0 {
			return nil
		}
		vault.SortByTitle(entries)

		tbl := newTable()
		for _, e := range entries {
			tbl.AddRow(e.ID, e.Title())
		}
		s.out.table(tbl)
		return nil
	}
}
