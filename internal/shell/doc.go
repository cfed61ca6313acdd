// Package shell implements the interactive kp2vcard session.
//
// A Session owns one decrypted contact tree. Each input line is split with
// shell quoting rules and dispatched to a freshly built cobra command, so
// flag values never carry over from one line to the next.
//
// Commands
//
//	ls [--tag T]                      list titled entries sorted by title
//	show <id>                         print one entry
//	search <term>                     match Title, Nickname and PhoneNumber
//	add <name>                        create an entry in the root group
//	edit-field <id> <field> <value>   set one field
//	edit <id> [--phone ...]           set well-known fields and tags
//	edit-notes <id>                   edit Notes in the external editor
//	export-vcard <path>               write all exportable entries as vCard
//	help | ?                          list commands
//	exit | quit                       leave the session
//
// Only ls and edit parse flags. The other commands take their arguments
// verbatim, so "search -0100" searches for "-0100". A flag value may start
// with a dash ("edit <id> --phone -0100"); a positional argument of ls or edit
// that starts with a dash goes after "--".
//
// Every mutation goes through (*vault.Entry).CommitIfChanged and the store is
// saved only when it reports a change. A failed save keeps the change in
// memory and marks the session unsynced; the prompt shows it and the save is
// retried once when the session ends.
package shell
