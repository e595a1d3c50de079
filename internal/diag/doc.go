// Package diag implements the `check` and `status` commands: a pre-launch
// audit of the machine, and a report on a running installation.
package diag
