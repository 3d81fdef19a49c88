// Package enginebootstrap loads a native storage engine once per process and
// hands it the directory it keeps its files in.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	enginebootstrap/     Root package with the NativeEngine and Host interfaces
//	├── bootstrap/       Coordinator: platform gate, load, single initializePath call
//	├── loader/          Load-once cell plus shared-library and wasm backends
//	├── gate/            Platform version parsing and the eligibility predicate
//	├── host/            Host environment adapters (static, desktop)
//	├── config/          YAML and environment configuration
//	├── errors/          Structured error types
//	└── cmd/bootstrap/   Command line driver
//
// # Quick Start
//
//	cfg := config.Default()
//	cfg.MinPlatformVersion = "28"
//
//	h := host.Static{Version: "29", Dir: filesDir}
//	outcome, err := bootstrap.Run(ctx, h, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(outcome) // "initialized" or "gate-skipped"
//
// # Bootstrap Protocol
//
// Within one process the engine binary is loaded at most once and receives at
// most one initializePath call. Bootstrap is skipped entirely when the host
// reports a platform version at or below the configured minimum. A failed load
// is never retried; the same error is returned until the process restarts.
package enginebootstrap
