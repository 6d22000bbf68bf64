// Package lib provides a Go SDK for managing onebox sandboxes programmatically.
//
// This package allows applications to manage a named sandbox container and run
// commands inside it without shelling out to the onebox CLI binary. It is
// useful for scripting, automation, and building tools on top of onebox.
//
// # Quick Start
//
// Create a client, make sure the sandbox is running, and execute commands:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Make sure the sandbox exists and is running. Safe to repeat.
//	sb, err := client.EnsureSandbox(ctx, lib.SandboxConfig{
//	    Name:  "my-sandbox",
//	    Image: "ubuntu:24.04",
//	})
//
//	// Run a command and inspect the captured output.
//	result, err := client.RunCommand(ctx, "my-sandbox", []string{"echo", "hello"}, nil)
//	fmt.Printf("%s", result.Stdout)
//
//	// Tear the sandbox down. Removing an absent sandbox is a no-op.
//	removed, err := client.RemoveSandbox(ctx, "my-sandbox", nil)
//
// # Engines
//
// The SDK supports two engine types:
//
//   - [EngineDocker]: Real Docker containers. Requires a reachable Docker
//     daemon (configured through the usual DOCKER_HOST environment).
//   - [EngineFake]: In-memory fake engine for unit testing. No real
//     infrastructure needed. Set [Config].Engine to [EngineFake] to use it.
//
// # Idempotency
//
// The sandbox is addressed by name, never by runtime ID, so every operation
// is safe to repeat: [Client.EnsureSandbox] never recreates an existing
// sandbox and [Client.RemoveSandbox] reports removed=false for an absent one
// instead of failing.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: The sandbox does not exist (e.g. running a command
//     before ensuring the sandbox).
//   - [ErrAlreadyExists]: A resource with the same identity already exists.
//   - [ErrNotValid]: Invalid input (e.g. an empty command).
//
// # Testing
//
// Use [EngineFake] and a temporary database path to write tests without
// real infrastructure:
//
//	client, _ := lib.New(ctx, lib.Config{
//	    DBPath: filepath.Join(t.TempDir(), "test.db"),
//	    Engine: lib.EngineFake,
//	})
//	defer client.Close()
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. The
// underlying storage uses SQLite with WAL mode.
package lib
