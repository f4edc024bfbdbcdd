// Package extension provides run-time registries for ability providers and
// for the typed views their results decode onto.
//
// The registries are normally populated through the public APIs under the
// root deskly package, therefore most applications do not need to import
// this package directly.
package extension
