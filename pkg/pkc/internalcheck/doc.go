// Package internalcheck holds policy tests that inspect the library source.
//
// The tests load the engine packages with golang.org/x/tools/go/packages and
// fail on constructs the library forbids: == on byte slices, %x formatting
// of values that may be secret, and engines importing one another.
//
// # Internal Use Only
//
// The package exports nothing and is not meant to be imported.
package internalcheck
