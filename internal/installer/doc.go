// Package installer fetches one versioned extension payload and unpacks
// it into a target directory: download, optional checksum verification,
// extract, delete the archive.
package installer
