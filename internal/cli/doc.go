// Package cli implements the afgraph command-line interface.
//
// The CLI opens a sequence dataset, wires the reference engine to the
// renderer, the parameter sync controller and the index table view, and
// exposes them through an interactive terminal UI, a web UI and one-shot
// commands. It is built using cobra and logs with charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - tui: Interactive terminal viewer
//   - serve: Web viewer with Prometheus metrics
//   - render: Export the graph as SVG, PNG, DOT or JSON
//   - index: Print the k-mer index table
//   - k: Read or change the persisted k
//   - import: Load a FASTA file into MongoDB
//   - cache: Manage the snapshot cache
//
// # Connections
//
// Every command takes --location (a FASTA path or MongoDB connection
// string), --database, --username and --password, or a --config file.
// Without either, a credentials.toml or credentials.json in the working
// directory is used.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli
