// Package dsl provides a fluent builder for constructing workflow graphs in
// Go code, as an alternative to the YAML definition format. It is aimed at
// tests and embedded scenarios where the graph is known at compile time.
package dsl
