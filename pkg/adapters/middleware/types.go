// Package middleware provides composable decorators for variable pools.
package middleware

import "github.com/aretw0/sluice/pkg/ports"

// Middleware allows wrapping a VariablePool to add behavior.
type Middleware func(ports.VariablePool) ports.VariablePool

// Chain applies middlewares to a pool, first middleware outermost.
func Chain(pool ports.VariablePool, mws ...Middleware) ports.VariablePool {
	for i := len(mws) - 1; i >= 0; i-- {
		pool = mws[i](pool)
	}
	return pool
}
