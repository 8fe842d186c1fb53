// Package test runs the generator against real sinks in containers.
// Run with: go test -tags integration ./test/...
package test
