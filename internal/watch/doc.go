// Package watch listens for udev netlink events and invokes a handler when
// optical media appears in the configured drive. It removes the need for
// udev rules that shell out to the CLI as root.
package watch
