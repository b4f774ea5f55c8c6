// Package dirsize computes the total byte size of a directory tree.
//
// Metadata for every descendant path is fetched concurrently: one task per
// path, coordinated by a single driving loop that drains two task pools
// (metadata fetches and directory expansions) until both are empty.
// Hard-linked files are counted once unless disabled, symlinks are skipped
// or followed depending on Options, and transient I/O failures are retried.
package dirsize
