// Package pending models rider operations captured while the device is
// offline, queued for replay once connectivity returns.
package pending
