// Package config loads runtime configuration for kp2vcard.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with --config; JSON, YAML and TOML are
//     recognised by extension.
//  3. Environment variables prefixed with KP2VCARD_, dots replaced by
//     underscores (KP2VCARD_STORE_PATH, KP2VCARD_LOG_LEVEL, ...).
//  4. Command-line flags, when set explicitly.
//
// Keys
//
//	store.path       location of the SQLite store (default "contacts.db")
//	editor.command   external notes editor, "{title}" is substituted
//	log.level        debug, info, warn or error (default "warn")
//
// Example YAML:
//
//	store:
//	  path: ~/contacts/contacts.db
//	editor:
//	  command: "zenity --text-info --editable --title {title}"
//	log:
//	  level: info
package config
