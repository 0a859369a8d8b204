// Package pkgx reads deps.yaml and pkgx.yaml manifests.
//
// Dependencies are either a mapping of name to range or a list. List items
// are "name@range" strings or mappings with name, version and global keys:
//
//	global: true
//	dependencies:
//	  nodejs.org: ^20
//	  bun.sh: '*'
//
//	dependencies:
//	  - bun.sh@1
//	  - name: python.org
//	    version: ~3.12
//	    global: true
//
// A top-level global: true applies to every entry that does not say
// otherwise. A name without "@" means any version.
package pkgx
