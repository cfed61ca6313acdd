package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/kp2vcard/internal/buildinfo"
	"github.com/dmitrijs2005/kp2vcard/internal/common"
	"github.com/dmitrijs2005/kp2vcard/internal/config"
	"github.com/dmitrijs2005/kp2vcard/internal/filex"
	"github.com/dmitrijs2005/kp2vcard/internal/logging"
	"github.com/dmitrijs2005/kp2vcard/internal/shell"
	"github.com/dmitrijs2005/kp2vcard/internal/store"
	"github.com/dmitrijs2005/kp2vcard/internal/vault"
)

// Password prompts, replaced in tests.
var (
	promptPassword    = shell.GetPassword
	promptNewPassword = shell.GetNewPassword
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kp2vcard",
		Short: "Browse and edit an encrypted contact store and export it as vCard",
		Long: `kp2vcard keeps contacts in an encrypted local store and exports the
entries that have a phone number as vCard 4.0.

Without a subcommand it opens the interactive shell.`,
		Version:       buildinfo.Version(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}
	root.SetVersionTemplate(buildinfo.String())

	pf := root.PersistentFlags()
	pf.StringP(config.FlagConfig, "c", "", "config file (JSON, YAML or TOML)")
	pf.StringP(config.FlagStore, "s", "", "path of the contact store (default \"contacts.db\")")
	pf.String(config.FlagEditor, "", "notes editor command, {title} is replaced by the entry title")
	pf.String(config.FlagLogLevel, "", "log level: debug, info, warn or error (default \"warn\")")

	root.AddCommand(newShellCmd(), newInitCmd(), newConvertCmd())
	return root
}

// env is what every subcommand needs after flags are parsed.
type env struct {
	cfg *config.Config
	log logging.Logger
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}

// unlock opens the configured store and decrypts it with a prompted
// password. The caller closes the store and wipes the credentials.
func (e *env) unlock(ctx context.Context, cmd *cobra.Command) (*store.SQLiteStore, *vault.Database, store.Credentials, error) {
	path := e.cfg.Store.Path
	if !filex.Exists(path) {
		return nil, nil, store.Credentials{}, fmt.Errorf("store %s does not exist, create it with `kp2vcard init`", path)
	}

	st, err := store.OpenSQLite(ctx, path, e.log)
	if err != nil {
		return nil, nil, store.Credentials{}, err
	}

	pw, err := promptPassword(cmd.OutOrStdout(), "Master password: ")
	if err != nil {
		_ = st.Close()
		return nil, nil, store.Credentials{}, fmt.Errorf("read password: %w", err)
	}
	creds := store.Credentials{Password: pw}

	db, err := st.Open(ctx, creds)
	if err != nil {
		creds.Wipe()
		_ = st.Close()
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, nil, store.Credentials{}, fmt.Errorf("wrong master password for %s: %w", path, err)
		}
		return nil, nil, store.Credentials{}, fmt.Errorf("open store %s: %w", path, err)
	}
	return st, db, creds, nil
}
