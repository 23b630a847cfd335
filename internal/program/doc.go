// Package program owns the scan-cycle collaborator boundary.
//
// Ownership boundary:
// - program identity metadata shape
// - the cyclic execution interface driven by the runtime
// - the local registry of built-in programs
package program
