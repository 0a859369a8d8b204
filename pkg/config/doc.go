// Package config loads pantry.toml.
//
// A configuration file is optional. [Load] looks for one in this order and
// falls back to [Default] when none exists:
//
//  1. the path given on the command line
//  2. ./pantry.toml
//  3. $XDG_CONFIG_HOME/pantry/config.toml (~/.config/pantry/config.toml)
//
// Example:
//
//	default_registry = "corp"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "6h"
//
//	[[registry]]
//	name = "corp"
//	type = "custom"
//	url = "https://packages.corp.example"
//	priority = 5
//	[registry.auth]
//	type = "bearer"
//	token = "${CORP_REGISTRY_TOKEN}"
//
//	[resolve]
//	strict_peers = true
//
// Values of the form ${NAME} or $NAME in registry URLs and credentials are
// expanded from the environment after decoding. When no [[registry]] entry
// is present the built-in set is used: the local store, the first-party
// registry, npm and GitHub.
package config
