// Package testutil provides common utility functions for testing.
package testutil

import (
	"context"
	"testing"

	"github.com/iwvelando/maize-roi/internal/config"
	"github.com/iwvelando/maize-roi/internal/planner"
	"go.uber.org/zap"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []planner.Result, name string) *planner.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// RunConfig loads the configuration at path and computes every active
// scenario against the market section's placeholder sources.
func RunConfig(tb testing.TB, path string) []planner.Result {
	tb.Helper()

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		tb.Fatalf("LoadConfiguration failed: %v", err)
	}
	prices, _, err := planner.MarketSources(*conf)
	if err != nil {
		tb.Fatalf("MarketSources failed: %v", err)
	}
	results, err := planner.Run(context.Background(), zap.NewNop(), *conf, prices)
	if err != nil {
		tb.Fatalf("planner.Run failed: %v", err)
	}
	return results
}
