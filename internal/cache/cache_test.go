package cache

import (
	"context"
	"testing"
	"time"
)

func TestNoopStoreAlwaysMisses(t *testing.T) {
	s := NewNoopStore()
	ctx := context.Background()
	if err := s.SetObject(ctx, DashboardKey, map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var dest map[string]int
	hit, err := s.GetObject(ctx, DashboardKey, &dest)
	if err != nil || hit {
		t.Fatalf("expected miss, hit=%v err=%v", hit, err)
	}
	if err := s.Delete(ctx, DashboardKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
