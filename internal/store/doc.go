// Package store persists extension records in a gitconfig-format sidecar
// file at the working-tree root, one subsection per extension keyed
// extension.<name>.<field>. The lifecycle controller is its only writer.
package store
