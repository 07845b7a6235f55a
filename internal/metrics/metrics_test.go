// file: internal/metrics/metrics_test.go
// version: 2.0.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d
// last-edited: 2026-10-19

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestIncSearch(t *testing.T) {
	before := testutil.ToFloat64(searches.WithLabelValues("jump"))
	IncSearch("jump")
	if got := testutil.ToFloat64(searches.WithLabelValues("jump")); got != before+1 {
		t.Errorf("searches{kind=jump} = %v, want %v", got, before+1)
	}
}

func TestSearchCacheCounters(t *testing.T) {
	hits := testutil.ToFloat64(searchCache.WithLabelValues("hit"))
	misses := testutil.ToFloat64(searchCache.WithLabelValues("miss"))
	IncSearchCacheHit()
	IncSearchCacheMiss()
	IncSearchCacheMiss()
	if got := testutil.ToFloat64(searchCache.WithLabelValues("hit")); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(searchCache.WithLabelValues("miss")); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestObservers(t *testing.T) {
	ObserveSearchDuration(250 * time.Microsecond)
	ObserveSearchResults(3)
	IncJump("dc")
	IncProgressWrite("notes")
}

func TestCatalogReload(t *testing.T) {
	before := testutil.ToFloat64(catalogReloads.WithLabelValues("error"))
	IncCatalogReload("error")
	if got := testutil.ToFloat64(catalogReloads.WithLabelValues("error")); got != before+1 {
		t.Errorf("reloads{status=error} = %v, want %v", got, before+1)
	}
}

func TestGauges(t *testing.T) {
	SetConditions(6)
	if got := testutil.ToFloat64(conditionsGauge); got != 6 {
		t.Errorf("conditions = %v, want 6", got)
	}
	SetCatalogGeneration(3)
	if got := testutil.ToFloat64(catalogGeneration); got != 3 {
		t.Errorf("generation = %v, want 3", got)
	}
	SetEventClients(2)
	if got := testutil.ToFloat64(sseClientsGauge); got != 2 {
		t.Errorf("event clients = %v, want 2", got)
	}
}
