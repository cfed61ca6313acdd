package shell

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/filex"
	"github.com/dmitrijs2005/kp2vcard/internal/vcard"
)

func (s *Session) buildExport(cmd *cobra.Command) {
	cmd.Args = usageArgs(cobra.MatchAll(cobra.ExactArgs(1), nonEmptyArgs))

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path := args[0]

		var buf bytes.Buffer
		n, err := vcard.Write(&buf, s.root())
		if err != nil {
			return fmt.Errorf("encode vcard: %w", err)
		}
		if err := filex.WriteFile(path, buf.Bytes()); err != nil {
			return err
		}

		s.log.Info(cmd.Context(), "vcard exported", "path", path, "cards", n)
		s.out.success("Exported %d cards to %s", n, path)
		return nil
	}
}
