package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/common"
	"github.com/dmitrijs2005/kp2vcard/internal/store"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new, empty contact store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			path := e.cfg.Store.Path

			st, err := store.OpenSQLite(ctx, path, e.log)
			if err != nil {
				return err
			}
			defer st.Close()

			ok, err := st.Initialized(ctx)
			if err != nil {
				return err
			}
			if ok {
				return fmt.Errorf("%s: %w", path, common.ErrAlreadyExists)
			}

			pw, err := promptNewPassword(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			creds := store.Credentials{Password: pw}
			defer creds.Wipe()

			if _, err := st.Create(ctx, creds, rootName(path)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created store %s\n", path)
			return nil
		},
	}
}

// rootName names the root group after the store file: "contacts.db" gives
// "contacts".
func rootName(path string) string {
	base := filepath.Base(path)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}
