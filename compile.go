package sluice

import (
	"github.com/aretw0/sluice/internal/compiler"
	"github.com/aretw0/sluice/pkg/domain"
)

// ParseDefinition compiles a YAML workflow definition into a validated Graph.
func ParseDefinition(data []byte) (*domain.Graph, error) {
	return compiler.NewParser().ParseDefinition(data)
}

// ParseEventLog decodes a YAML event log into the ordered event sequence a
// live engine would have emitted.
func ParseEventLog(data []byte) ([]domain.Event, error) {
	return compiler.NewParser().ParseEventLog(data)
}
