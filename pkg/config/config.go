// Package config holds the small set of constants shared across the
// storage core: page geometry, buffer pool sizing, and REPL cosmetics.
package config

import "github.com/ncw/directio"

// PageSize is the fixed size of every page moved between the buffer pool
// and disk. directio requires aligned blocks, so we inherit its block size
// rather than hardcoding 4096 and risking misaligned reads/writes.
var PageSize = int64(directio.BlockSize)

// NumFrames is the number of frames held by the buffer pool manager.
var NumFrames = 64

// HashBucketSize is the default capacity of one extendible-hash bucket
// before it splits.
var HashBucketSize = 4

// Prompt returns the REPL prompt string, blank when the caller asked for a
// quiet, script-friendly session.
func Prompt(quiet bool) string {
	if quiet {
		return ""
	}
	return "> "
}
