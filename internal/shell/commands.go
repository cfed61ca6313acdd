package shell

import (
	"context"
	"errors"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

// commandDef describes one REPL command. build fills in RunE, Args and flags
// of a command whose Use and Short are already set. A command with verbatim
// set declares no flags and receives every argument as is, so values such as
// "-0100" are not mistaken for flags.
type commandDef struct {
	use      string
	short    string
	verbatim bool
	build    func(s *Session, cmd *cobra.Command)
}

func (s *Session) commandDefs() []commandDef {
	return []commandDef{
		{use: "ls", short: "List entries sorted by title", build: (*Session).buildLs},
		{use: "show <id>", short: "Show one entry", verbatim: true, build: (*Session).buildShow},
		{use: "search <term>", short: "Search titles, nicknames and phone numbers", verbatim: true, build: (*Session).buildSearch},
		{use: "add <name>", short: "Add an entry to the root group", verbatim: true, build: (*Session).buildAdd},
		{use: "edit-field <id> <field> <value>", short: "Set one field of an entry", verbatim: true, build: (*Session).buildEditField},
		{use: "edit <id>", short: "Set well-known fields and tags of an entry", build: (*Session).buildEdit},
		{use: "edit-notes <id>", short: "Edit the notes of an entry in the external editor", verbatim: true, build: (*Session).buildEditNotes},
		{use: "export-vcard <path>", short: "Export entries with a phone number as vCard 4.0", verbatim: true, build: (*Session).buildExport},
	}
}

// newCommand builds a fresh cobra command for name, or nil when name is not
// a command.
func (s *Session) newCommand(name string) *cobra.Command {
	for _, def := range s.commandDefs() {
		cmd := &cobra.Command{
			Use:           def.use,
			Short:         def.short,
			SilenceErrors: true,
			SilenceUsage:  true,
			CompletionOptions: cobra.CompletionOptions{
				DisableDefaultCmd: true,
			},
		}
		if cmd.Name() != name {
			continue
		}

		if def.verbatim {
			cmd.DisableFlagParsing = true
			cmd.DisableFlagsInUseLine = true
		}
		def.build(s, cmd)
		cmd.SetOut(s.out.w)
		cmd.SetErr(s.out.w)
		cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
			return &UsageError{Usage: c.UseLine(), Err: err}
		})
		return cmd
	}
	return nil
}

// usageArgs wraps a positional-argument validator so its failures surface
// as *UsageError.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &UsageError{Usage: cmd.UseLine(), Err: err}
		}
		return nil
	}
}

func nonEmptyArgs(_ *cobra.Command, args []string) error {
	for _, a := range args {
		if a == "" {
			return errors.New("arguments must not be empty")
		}
	}
	return nil
}

// Execute runs one input line and reports whether the session should end.
// Errors are reported to the user and never stop the session.
func (s *Session) Execute(ctx context.Context, line string) (quit bool) {
	args, err := shellwords.Parse(line)
	if err != nil {
		s.out.error("Parse error: %v", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	name := args[0]
	switch name {
	case "help", "?":
		s.help()
		return false
	case "exit", "quit":
		return true
	}

	cmd := s.newCommand(name)
	if cmd == nil {
		s.out.warn("Invalid command: %s", name)
		return false
	}

	cmd.SetArgs(args[1:])
	if err := cmd.ExecuteContext(ctx); err != nil {
		s.report(ctx, name, err)
	}
	return false
}

func (s *Session) report(ctx context.Context, name string, err error) {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		s.out.error("%v", usageErr.Err)
		s.out.println("Usage: " + usageErr.Usage)
		return
	}

	s.log.Error(ctx, "command failed", "command", name, "error", err)
	s.out.error("Error: %v", err)
}

func (s *Session) help() {
	tbl := newTable()
	tbl.AddRow(boldColor.Sprint("Command"), boldColor.Sprint("Description"))
	for _, def := range s.commandDefs() {
		tbl.AddRow(def.use, def.short)
	}
	tbl.AddRow("help | ?", "Show this help")
	tbl.AddRow("exit | quit", "Leave the session")
	s.out.table(tbl)
}
