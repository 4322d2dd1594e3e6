// Package preflight validates the environment before a rip starts: optical
// device access, output directory permissions, free space, and external tool
// availability.
package preflight
