package shell

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/common"
	"github.com/dmitrijs2005/kp2vcard/internal/editor"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

var errNoEditor = errors.New("no editor configured")

func (s *Session) buildEditNotes(cmd *cobra.Command) {
	cmd.Args = usageArgs(cobra.ExactArgs(1))

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := s.lookup(args[0])
		if errors.Is(err, common.ErrNotFound) {
			s.out.warn("Entry not found: %s", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		if s.editor == nil {
			return errNoEditor
		}

		title := e.Title()
		if title == "" {
			title = e.ID
		}

		text, err := s.editor.EditText(cmd.Context(), fmt.Sprintf("Notes: %s", title), e.Text(vault.FieldNotes))
		if err != nil {
			var editErr *editor.Error
			if errors.As(err, &editErr) {
				s.log.Info(cmd.Context(), "notes edit cancelled", "id", e.ID, "exit_code", editErr.ExitCode)
				if editErr.Diagnostic != "" {
					s.out.warn("Notes not changed: %s", editErr.Diagnostic)
				} else {
					s.out.warn("Notes not changed")
				}
				return nil
			}
			return fmt.Errorf("edit notes: %w", err)
		}

		if prev, ok := e.Get(vault.FieldNotes); ok && prev.Protected {
			e.SetProtected(vault.FieldNotes, text)
		} else {
			e.Set(vault.FieldNotes, text)
		}
		s.reportCommit(cmd.Context(), e)
		return nil
	}
}
