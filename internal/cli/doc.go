// Package cli defines the drex command tree. Commands parse and validate
// options, wire up the lifecycle controller from the surrounding git
// working tree, and dispatch to exactly one operation per invocation.
package cli
