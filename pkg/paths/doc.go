// Package paths provides centralized path handling for dotrig.
//
// It resolves the XDG base directories dotrig uses for its own config, data
// and state, validates configuration target names, and allocates the fresh
// backup root each reconciliation run writes into.
package paths
