package shell

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/common"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

const protectedMask = "********"

// showOrder lists the well-known fields in display order. Numbered variants
// follow their base field.
var showOrder = []string{
	vault.FieldTitle,
	vault.FieldNickname,
	vault.FieldPhoneNumber,
	vault.FieldEmail,
	vault.FieldAddress,
	vault.FieldMatrixID,
	vault.FieldBirthDate,
}

var withVariants = map[string]bool{
	vault.FieldPhoneNumber: true,
	vault.FieldEmail:       true,
}

func (s *Session) buildShow(cmd *cobra.Command) {
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
		s.showEntry(e)
		return nil
	}
}

// displayFields returns the populated field names of e in display order.
func displayFields(e *vault.Entry) []string {
	var names []string
	add := func(name string) {
		if v, ok := e.Get(name); ok && v.Text != "" {
			names = append(names, name)
		}
	}
	for _, name := range showOrder {
		add(name)
		if withVariants[name] {
			for _, variant := range e.Variants(name) {
				add(variant)
			}
		}
	}
	for _, name := range e.CustomFields() {
		add(name)
	}
	return names
}

func (s *Session) showEntry(e *vault.Entry) {
	tbl := newTable()
	tbl.AddRow(boldColor.Sprint("ID"), e.ID)
	for _, name := range displayFields(e) {
		v, _ := e.Get(name)
		text := v.Text
		if v.Protected {
			text = protectedMask
		}
		tbl.AddRow(boldColor.Sprint(name), text)
	}
	if len(e.Tags) > 0 {
		tbl.AddRow(boldColor.Sprint("Tags"), strings.Join(e.Tags, ", "))
	}
	s.out.table(tbl)

	if notes, ok := e.Get(vault.FieldNotes); ok && notes.Text != "" {
		text := notes.Text
		if notes.Protected {
			text = protectedMask
		}
		s.out.println("--- Notes ---")
		s.out.println(text)
		s.out.println("---")
	}
}
