/*
Package domain contains the core domain models for the Sluice coordinator.

It defines the workflow graph as the coordinator sees it (node ids and
branch-tagged edges), the output routes owned by terminal nodes, and the
engine event union the coordinator transforms. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Graph: Immutable node/edge structure plus per-terminal routes and
    dependency sets. Built once per workflow definition, reused across runs.
  - Route: The pre-computed output template of one terminal node, an ordered
    list of literal and reference segments.
  - Selector: Identifies a value in the variable pool by producing node and
    value path.
  - Event: The closed union of engine events (started, finished, chunk, ...).
*/
package domain
