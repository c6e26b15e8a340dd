/*
Package ports defines the driven ports (interfaces) for the Sluice coordinator.

These interfaces decouple the core from external implementations, allowing the
coordinator to resolve variables from various backends (in-memory, Redis, or
anything the surrounding engine already uses).

# Key Interfaces

  - VariablePool: Read-only access to values produced by graph nodes,
    resolved by selector.
*/
package ports
