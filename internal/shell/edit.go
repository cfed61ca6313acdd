package shell

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/common"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

// editFlags maps the flags of the edit command to the fields they set.
var editFlags = []struct {
	flag  string
	field string
	usage string
}{
	{"birthdate", vault.FieldBirthDate, "birth date"},
	{"address", vault.FieldAddress, "postal address"},
	{"email", vault.FieldEmail, "e-mail address"},
	{"phone", vault.FieldPhoneNumber, "phone number"},
	{"matrix", vault.FieldMatrixID, "Matrix ID"},
	{"nickname", vault.FieldNickname, "nickname"},
}

const tagsFlag = "tags"

func (s *Session) buildEditField(cmd *cobra.Command) {
	cmd.Args = usageArgs(cobra.ExactArgs(3))

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, field, value := args[0], args[1], args[2]
		if field == "" {
			return &UsageError{Usage: cmd.UseLine(), Err: errors.New("field name must not be empty")}
		}

		e, err := s.lookup(id)
		if err != nil {
			return err
		}

		e.Set(field, value)
		s.reportCommit(cmd.Context(), e)
		return nil
	}
}

func (s *Session) buildEdit(cmd *cobra.Command) {
	values := make(map[string]*string, len(editFlags))
	for _, f := range editFlags {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	tags := cmd.Flags().String(tagsFlag, "", "comma-separated tags, replaces the current set")
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

		for _, f := range editFlags {
			if cmd.Flags().Changed(f.flag) {
				e.Set(f.field, *values[f.flag])
			}
		}
		if cmd.Flags().Changed(tagsFlag) {
			e.SetTags(splitTags(*tags))
		}

		s.reportCommit(cmd.Context(), e)
		return nil
	}
}

func (s *Session) reportCommit(ctx context.Context, e *vault.Entry) {
	if s.commit(ctx, e) {
		s.log.Info(ctx, "entry modified", "id", e.ID)
		s.out.success("Entry modified")
		return
	}
	s.out.faint("Entry not modified")
}

// splitTags splits a comma-separated list, trimming spaces and dropping
// empty items.
func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
