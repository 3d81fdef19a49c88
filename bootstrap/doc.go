// Package bootstrap runs the one-time engine startup sequence.
//
// # Sequence
//
//  1. Gate: the host's platform version must be strictly above the configured
//     minimum. Otherwise bootstrap is skipped and reports OutcomeGateSkipped
//     with no error and no native calls.
//  2. Load: the engine binary is loaded through the Loader's load-once cell.
//  3. Resolve: the host supplies its private storage directory. The
//     coordinator neither creates nor validates it.
//  4. Initialize: the engine receives the directory in a single
//     initializePath call. The call returns nothing and is not retried.
//
// # States
//
//	NotStarted -> Gated                (terminal)
//	NotStarted -> Loading -> Done      (terminal)
//	NotStarted -> Loading -> Failed    (terminal)
//
// The first completion is final for the coordinator's lifetime. Calling
// EvaluateAndRun again returns the recorded outcome and error without any
// further native calls. A failure therefore persists until the process
// restarts.
//
// # Process-wide use
//
// Run drives a single process-wide Coordinator built from the first
// configuration it sees:
//
//	outcome, err := bootstrap.Run(ctx, host.Static{Version: "29", Dir: dir}, cfg)
//
// # Thread Safety
//
// Coordinator is safe for concurrent use. Concurrent EvaluateAndRun calls
// serialize; one performs the sequence and the others observe its result.
package bootstrap
