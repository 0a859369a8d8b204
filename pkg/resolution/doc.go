// Package resolution holds the per-invocation state of a dependency
// resolution: version conflicts, peer dependency declarations and optional
// dependency outcomes.
//
// A [Context] owns one [ConflictResolver], one [PeerManager], one
// [OptionalManager] and, when a lock record was loaded, that record. It is
// created for a single resolve or install, is not safe for concurrent use,
// and is discarded afterwards. [Context.Result] bundles the outcome into a
// [Result] whose Report method formats it for people.
package resolution
