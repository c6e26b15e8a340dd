/*
Package sluice is a stream-route coordinator: it sits between a DAG workflow
engine and a streaming client, transforming the engine's raw event sequence
into the output stream each terminal node's template describes.

It implements a "Lazy Event-Sequence Transformer" architecture, separating
the workflow graph (structure), the variable pool (produced values) and the
run state (what is still reachable). The coordinator never executes nodes and
never buffers the sequence: one upstream event in, zero or more downstream
events out, in order.

# Concept

A workflow definition declares nodes, branch-tagged edges, and one output
template per terminal node. Templates interleave literal text with references
to values other nodes produce. While the engine runs, the coordinator:

  - tracks which nodes can still execute, pruning whole branches the moment
    a conditional node reports its decision;
  - emits each terminal's template progressively, as soon as the values a
    segment needs are proven final;
  - forwards live stream chunks (e.g. LLM deltas) straight to the terminals
    currently waiting on exactly that variable, without re-emitting them when
    the producing node finishes.

This Hexagonal Architecture keeps the core free of I/O: adapters provide the
variable pool (in-memory, Redis) and the serving surface (HTTP/SSE, CLI).

# Usage

Compile a definition into a graph once, then create a Coordinator per run
context and feed it the engine's events:

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/aretw0/sluice"
	)

	func main() {
		data, err := os.ReadFile("workflow.yaml")
		if err != nil {
			log.Fatal(err)
		}
		graph, err := sluice.ParseDefinition(data)
		if err != nil {
			log.Fatal(err)
		}

		coord, err := sluice.New(graph)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		for ev := range engineEvents() { // your engine's event channel
			for _, out := range coord.Feed(ctx, ev) {
				fmt.Println(out)
			}
		}
	}

For offline use (tests, CI, debugging transcripts) the Replayer drives a
coordinator from a recorded event log, seeding the pool from the outputs the
log carries.
*/
package sluice
