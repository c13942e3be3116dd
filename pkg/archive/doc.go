// Package archive stores delivery report snapshots as objects, either in an
// S3-compatible bucket or in a local directory. The broadcast service uses
// it as a best-effort audit sink after each run.
package archive
