// Package filesystem provides stat, access, and directory-listing helpers
// with retry logic for transient NFS errors (stale file handles).
//
// Media libraries frequently live on NFS mounts where a rename or re-export
// can briefly surface ESTALE to readers. The helpers here retry those errors
// with bounded exponential backoff and report attempts through an Observer
// so the metrics package can export them without an import cycle.
package filesystem
