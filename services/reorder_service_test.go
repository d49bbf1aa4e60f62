package services

import (
	"context"
	"testing"

	"molding-inventory/models"
	"molding-inventory/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		current, reorder string
		want             Urgency
	}{
		{"0", "100", UrgencyCritical},
		{"-3", "10", UrgencyCritical},
		{"50", "100", UrgencyHigh},
		{"51", "100", UrgencyNormal},
		{"100", "100", UrgencyNormal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UrgencyFor(dec(tt.current), dec(tt.reorder)), "%s/%s", tt.current, tt.reorder)
	}
}

func TestSuggestedOrder(t *testing.T) {
	assert.Equal(t, "170", SuggestedOrder(dec("30"), dec("100")).String())
	assert.Equal(t, "100", SuggestedOrder(dec("100"), dec("100")).String())
	assert.Equal(t, "200", SuggestedOrder(dec("0"), dec("100")).String())
}

func TestLowStockOrdersByUrgency(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	mustCreate(t, svc, &models.Material{Name: "PA66", Supplier: "Resin Co", CurrentStock: dec("80"), ReorderPoint: dec("100")})
	mustCreate(t, svc, &models.Component{Name: "Clip", Supplier: "Resin Co", CurrentStock: 0, ReorderPoint: 50})
	mustCreate(t, svc, &models.Packaging{Name: "Carton", Supplier: "Box Inc", CurrentStock: 10, ReorderPoint: 40})
	mustCreate(t, svc, &models.Consumable{Name: "Release agent", CurrentStock: 30, ReorderPoint: 5})

	items, err := svc.Reorder.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Clip", items[0].Name)
	assert.Equal(t, UrgencyCritical, items[0].Urgency)
	assert.Equal(t, "Carton", items[1].Name)
	assert.Equal(t, UrgencyHigh, items[1].Urgency)
	assert.Equal(t, "PA66", items[2].Name)
	assert.Equal(t, "120", items[2].SuggestedOrder.String())

	suppliers := Suppliers(items)
	require.Len(t, suppliers, 3)
	for _, s := range suppliers {
		assert.Equal(t, 1, s.Items)
	}

	summary, err := svc.Reorder.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, len(types.AllItemKinds))
	for _, s := range summary {
		if s.Kind == types.KindConsumable {
			assert.Equal(t, int64(1), s.Total)
			assert.Zero(t, s.LowStock)
		}
	}
}

func TestSuppliersGroupsByKind(t *testing.T) {
	items := []ReorderItem{
		{Kind: types.KindMaterial, Supplier: "Resin Co"},
		{Kind: types.KindMaterial, Supplier: "Resin Co"},
		{Kind: types.KindComponent, Supplier: "Resin Co"},
		{Kind: types.KindPackaging},
	}
	out := Suppliers(items)
	require.Len(t, out, 2)
	assert.Equal(t, SupplierSummary{Supplier: "Resin Co", Kind: types.KindMaterial, Items: 2}, out[0])
}
