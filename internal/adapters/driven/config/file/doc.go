// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in a TOML file, by default
// ~/.vecsync/config.toml. Keys are exposed flat ("index.endpoint") and
// written back as nested tables:
//
//	[index]
//	endpoint = "https://..."
//	keyspace = "default_keyspace"
package file
