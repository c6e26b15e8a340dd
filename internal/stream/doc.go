/*
Package stream implements the coordinator that sits between a DAG execution
engine and a client consuming incremental output.

The engine emits a flat, dependency-unaware event sequence as nodes start,
stream partial output, and finish. The coordinator transforms that sequence,
single pass and order preserving, so that each terminal node's output
template is emitted as early as legally possible, at most once per segment,
and never from a branch the execution did not take.

Three cooperating responsibilities share the run-scoped state owned by one
Coordinator:

  - the reachability tracker maintains the set of nodes not yet proven
    finished or unreachable, pruning branches a conditional node did not take;
  - the route emitter advances a per-terminal cursor through the terminal's
    output template, flushing newly ready segments after every finished node;
  - the live-chunk matcher decides which terminals a streaming node feeds
    directly, memoizing the decision for the node's run.
*/
package stream
