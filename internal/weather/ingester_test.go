package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestForecastIngester_UpsertsAllPoints(t *testing.T) {
	store := newFakeStore()
	base := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	provider := &fakeProvider{points: []ForecastPoint{
		{Time: base, Temperature: 8.1, WindSpeed: floatPtr(3.2), Humidity: intPtr(81)},
		{Time: base.Add(time.Hour), Temperature: 7.6},
	}}

	asOf := base.Add(9 * time.Hour)
	if err := NewForecastIngester(store, provider, "smhi").Ingest(context.Background(), asOf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !provider.asOf.Equal(asOf) {
		t.Errorf("expected provider to be asked for %v, got %v", asOf, provider.asOf)
	}
	if got := store.forecasts["smhi"]; len(got) != 2 {
		t.Fatalf("expected 2 upserted points under smhi, got %d", len(got))
	}
}

func TestForecastIngester_ProviderFailureWritesNothing(t *testing.T) {
	store := newFakeStore()
	fetchErr := errors.New("no forecast found")
	provider := &fakeProvider{err: fetchErr}

	err := NewForecastIngester(store, provider, "smhi").Ingest(context.Background(), time.Now())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if len(store.forecasts) != 0 {
		t.Errorf("expected nothing written, got %+v", store.forecasts)
	}
}

func TestForecastIngester_StoreFailureIsReturned(t *testing.T) {
	store := newFakeStore()
	store.upsertErr = errors.New("constraint failed")
	provider := &fakeProvider{points: []ForecastPoint{{Time: time.Now(), Temperature: 1}}}

	err := NewForecastIngester(store, provider, "smhi").Ingest(context.Background(), time.Now())
	if !errors.Is(err, store.upsertErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
