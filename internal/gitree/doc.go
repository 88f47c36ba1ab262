// Package gitree wraps the version-control collaborator: clean-tree
// checks, the current branch, staging, and commits, all via go-git.
package gitree
