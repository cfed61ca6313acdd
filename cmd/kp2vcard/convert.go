package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/filex"
	"github.com/dmitrijs2005/kp2vcard/internal/vcard"
)

const formatVCard = "vcard"

var errUnknownFormat = errors.New("could not detect file format based on path extension")

// detectFormat resolves the output format from an explicit name or, when
// format is empty, from the extension of path.
func detectFormat(path, format string) (string, error) {
	switch strings.ToLower(format) {
	case formatVCard, "vcf":
		return formatVCard, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".vcf") || strings.HasSuffix(lower, ".vcard") {
		return formatVCard, nil
	}
	return "", errUnknownFormat
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <path> [format]",
		Short: "Export the store to a file without opening the shell",
		Long: `Export every entry with a title and an unprotected phone number.

The format is taken from the extension of path (.vcf or .vcard) unless it is
given explicitly.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, format := args[0], ""
			if len(args) == 2 {
				format = args[1]
			}
			if _, err := detectFormat(path, format); err != nil {
				return err
			}

			ctx := cmd.Context()
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			st, db, creds, err := e.unlock(ctx, cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			defer creds.Wipe()

			var buf bytes.Buffer
			n, err := vcard.Write(&buf, db.Root)
			if err != nil {
				return err
			}
			if err := filex.WriteFile(path, buf.Bytes()); err != nil {
				return err
			}

			e.log.Info(ctx, "vcard exported", "path", path, "cards", n)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s\n", n, path)
			return nil
		},
	}
}
