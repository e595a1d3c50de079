// Package launch implements the launch sequence: verify the interpreter,
// provision packages and directories, then spawn the back end, wait for it,
// and spawn the front end.
//
// The steps run strictly in order and the sequence stops at the first
// failure, so a run ends in one of two ways: a step failed and nothing after
// it happened, or both services were spawned. Spawned processes are detached
// and are not tracked once started.
package launch
