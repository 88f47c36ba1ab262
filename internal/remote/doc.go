// Package remote is the client for the package index. It answers three
// questions: does this extension exist, does this release exist, and
// give me the tarball. Every probe distinguishes found, not found, and
// not accessible.
package remote
