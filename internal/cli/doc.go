// Package cli provides the interactive data room shell.
//
// The App wires the state store, the auth service and the local file
// helpers behind a read-eval-print loop. Every data command goes through
// the state store, so the listing shown after a command is always a fresh
// read from storage. Data commands require a logged-in session.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends. See runREPL for the command set.
package cli
