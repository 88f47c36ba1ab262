// Package lifecycle implements the four operations over tracked
// extensions: add, update, move, remove. Each validates its
// preconditions against the metadata store before any side effect, then
// touches the remote index, the filesystem, the store, and version
// control in that fixed order, so a failure leaves a diagnosable state.
package lifecycle
