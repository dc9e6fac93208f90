package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sacra/internal/model"
	ws "sacra/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestCreateFigurineDefaults(t *testing.T) {
	env := newTestEnv(t)

	fig, err := env.catalog.CreateFigurine(context.Background(), "", CreateFigurineRequest{
		Name:  "  Virgen de Guadalupe ",
		Price: "99.999",
		Stock: 4,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if fig.Name != "Virgen de Guadalupe" {
		t.Fatalf("expected trimmed name, got %q", fig.Name)
	}
	if fig.Material != model.MaterialResin {
		t.Fatalf("expected default material, got %s", fig.Material)
	}
	if fig.Size != model.DefaultFigurineSize || fig.Description != model.DefaultFigurineDescription {
		t.Fatalf("expected default size and description, got %q/%q", fig.Size, fig.Description)
	}
	if !fig.Price.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected price rounded to 100.00, got %s", fig.Price)
	}

	movements, err := env.movements.ListByFigurine(context.Background(), uuid.MustParse(fig.ID))
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 1 || movements[0].MovementType != model.MovementIn || movements[0].QuantityChanged != 4 {
		t.Fatalf("expected one IN movement of 4, got %+v", movements)
	}

	logs, total, err := env.audit.List(context.Background(), 1, 10, model.ActionCreateFigurine)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if total != 1 || logs[0].EntityID != fig.ID {
		t.Fatalf("expected one CREATE_FIGURINE entry, got %d", total)
	}
}

func TestCreateFigurineValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		req  CreateFigurineRequest
	}{
		{"empty name", CreateFigurineRequest{Name: " ", Price: "10"}},
		{"negative price", CreateFigurineRequest{Name: "X", Price: "-1"}},
		{"price not a number", CreateFigurineRequest{Name: "X", Price: "diez"}},
		{"price over limit", CreateFigurineRequest{Name: "X", Price: "100000000"}},
		{"price rounds to limit", CreateFigurineRequest{Name: "X", Price: "99999999.999"}},
		{"negative stock", CreateFigurineRequest{Name: "X", Price: "10", Stock: -2}},
		{"unknown material", CreateFigurineRequest{Name: "X", Price: "10", Material: "WOOD"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.catalog.CreateFigurine(context.Background(), "", tc.req); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if n := countRows(t, env, &model.Figurine{}); n != 0 {
		t.Fatalf("expected no figurines, got %d", n)
	}
}

func TestListFigurinesSearch(t *testing.T) {
	env := newTestEnv(t)
	env.createFigurine(t, "Virgen del Quinche", "80", 1)
	env.createFigurine(t, "Virgen del Cisne", "80", 1)
	env.createFigurine(t, "San Francisco", "80", 1)

	items, total, err := env.catalog.ListFigurines(context.Background(), 1, 20, "virgen")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 matches, got %d", total)
	}

	items, total, err = env.catalog.ListFigurines(context.Background(), 2, 2, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Fatalf("expected last page with 1 of 3, got %d of %d", len(items), total)
	}
}

func TestDeleteFigurineCascades(t *testing.T) {
	env := newTestEnv(t)
	fig := env.createFigurine(t, "Cristo Rey", "200", 3)
	other := env.createFigurine(t, "San Pedro", "90", 1)

	s1 := env.createSale(t, fig.ID, "1")
	s2 := env.createSale(t, fig.ID, "2")
	env.createSale(t, fig.ID, "3")
	keep := env.createSale(t, other.ID, "4")

	env.pay(t, s1.ID, "50")
	env.pay(t, s1.ID, "25")
	env.pay(t, s2.ID, "10")
	env.pay(t, keep.ID, "90")

	res, err := env.catalog.DeleteFigurine(context.Background(), "", fig.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.SalesRemoved != 3 || res.PaymentsRemoved != 3 {
		t.Fatalf("expected 3 sales and 3 payments removed, got %+v", res)
	}

	if _, err := env.figurines.FindByID(context.Background(), uuid.MustParse(fig.ID)); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected figurine gone, got %v", err)
	}
	if n := countRows(t, env, &model.Sale{}); n != 1 {
		t.Fatalf("expected only the unrelated sale left, got %d", n)
	}
	if n := countRows(t, env, &model.Payment{}); n != 1 {
		t.Fatalf("expected only the unrelated payment left, got %d", n)
	}
	movements, err := env.movements.ListByFigurine(context.Background(), uuid.MustParse(fig.ID))
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if len(movements) != 0 {
		t.Fatalf("expected movements removed, got %d", len(movements))
	}

	logs, _, err := env.audit.List(context.Background(), 1, 10, model.ActionDeleteFigurine)
	if err != nil || len(logs) != 1 {
		t.Fatalf("expected one delete audit entry, got %d (%v)", len(logs), err)
	}
	var details map[string]int64
	if err := json.Unmarshal([]byte(logs[0].Details), &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details["sales_removed"] != 3 || details["payments_removed"] != 3 {
		t.Fatalf("unexpected audit details %v", details)
	}

	names := env.events.names()
	if names[len(names)-1] != ws.EventFigurineDeleted {
		t.Fatalf("expected last event %s, got %v", ws.EventFigurineDeleted, names)
	}
}

func TestDeleteFigurineNotFound(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.catalog.DeleteFigurine(context.Background(), "", uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
