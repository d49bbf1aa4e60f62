package services

import (
	"context"
	"testing"

	"molding-inventory/apperr"
	"molding-inventory/models"
	"molding-inventory/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignCavity(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	part := mustCreate(t, svc, &models.Part{PartNumber: "20636"})
	other := mustCreate(t, svc, &models.Part{PartNumber: "20637"})
	mold := mustMold(t, svc, "20636", 4, "2.5")

	cavity, err := svc.Molds.AssignCavity(ctx, admin, mold.ID, 2, part.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, part.ID, cavity.PartID)

	cavity, err = svc.Molds.AssignCavity(ctx, admin, mold.ID, 2, other.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, other.ID, cavity.PartID)
	assert.Equal(t, 2, cavity.PartsPerShot)

	got, err := svc.Molds.GetCavity(ctx, mold.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.PartID)

	_, err = svc.Molds.GetCavity(ctx, mold.ID, 3)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	removed, err := svc.Molds.UnassignCavity(ctx, admin, mold.ID, 2)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestAssignCavityRejects(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	part := mustCreate(t, svc, &models.Part{PartNumber: "P-1"})
	mold := mustMold(t, svc, "M-1", 2, "3.2")

	_, err := svc.Molds.AssignCavity(ctx, admin, mold.ID, 0, part.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidCavityIndex)

	_, err = svc.Molds.AssignCavity(ctx, admin, mold.ID, 3, part.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrInvalidCavityIndex)

	_, err = svc.Molds.AssignCavity(ctx, admin, mold.ID, 1, part.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrInvalidQuantity)

	_, err = svc.Molds.AssignCavity(ctx, admin, mold.ID, 1, 404, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Molds.AssignCavity(ctx, admin, 404, 1, part.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Molds.AssignCavity(ctx, viewer, mold.ID, 1, part.ID, 1)
	assert.ErrorIs(t, err, apperr.ErrDenied)
}

func TestUpdateMoldCannotOrphanCavities(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	part := mustCreate(t, svc, &models.Part{PartNumber: "P-1"})
	mold := mustMold(t, svc, "M-1", 4, "2.5")
	_, err := svc.Molds.AssignCavity(ctx, admin, mold.ID, 4, part.ID, 1)
	require.NoError(t, err)

	_, err = svc.Molds.UpdateMold(ctx, admin, &models.Mold{ID: mold.ID, MoldNumber: "M-1", TotalCavities: 3, ShotSize: dec("2.5")})
	assert.ErrorIs(t, err, apperr.ErrInvalidCavityIndex)

	updated, err := svc.Molds.UpdateMold(ctx, admin, &models.Mold{ID: mold.ID, MoldNumber: "M-1", TotalCavities: 6, ShotSize: dec("2.75")})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.TotalCavities)
	assert.Equal(t, "2.75", updated.ShotSize.String())
}

func TestMoldNumberIsUnique(t *testing.T) {
	svc, _ := newTestServices(t)
	mustMold(t, svc, "M-1", 1, "1")
	_, err := svc.Molds.CreateMold(context.Background(), admin, &models.Mold{MoldNumber: "M-1", TotalCavities: 2, ShotSize: dec("1")})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)
}

func TestDeleteMoldRemovesCavities(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	part := mustCreate(t, svc, &models.Part{PartNumber: "P-1"})
	mold := mustMold(t, svc, "M-1", 2, "1")
	_, err := svc.Molds.AssignCavity(ctx, admin, mold.ID, 1, part.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Molds.DeleteMold(ctx, admin, mold.ID))

	var n int64
	require.NoError(t, db.Model(&models.MoldCavity{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.ErrorIs(t, svc.Molds.DeleteMold(ctx, admin, mold.ID), apperr.ErrNotFound)
}

func TestProductionRequirements(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	part := mustCreate(t, svc, &models.Part{PartNumber: "20636"})
	mat := mustCreate(t, svc, &models.Material{Name: "PA66", CurrentStock: dec("200")})
	mold := mustMold(t, svc, "20636", 4, "2.5")
	for i := 1; i <= 4; i++ {
		_, err := svc.Molds.AssignCavity(ctx, admin, mold.ID, i, part.ID, 1)
		require.NoError(t, err)
	}
	require.NoError(t, svc.BOM.UpsertEdge(ctx, admin, part.ID, types.KindMaterial, mat.ID, dec("2.5"), EdgeMeta{}))

	report, err := svc.Molds.ProductionRequirements(ctx, part.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, "20636", report.PartNumber)
	require.NotNil(t, report.CyclesNeeded)
	assert.Equal(t, int64(25), *report.CyclesNeeded)
	require.Len(t, report.Materials, 1)
	assert.Equal(t, "250", report.Materials[0].Needed.String())
	assert.Equal(t, "50", report.Materials[0].Shortage.String())
	assert.False(t, report.AllSufficient)

	lines, err := svc.Molds.CavitiesForPart(ctx, part.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 4)

	_, err = svc.Molds.ProductionRequirements(ctx, 404, 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestShotPlanAndMaxProducible(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	mold := mustMold(t, svc, "20638-BASE", 2, "3.2")

	plan, err := svc.Molds.ShotPlan(ctx, mold.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(25), plan.ShotsNeeded)
	assert.Equal(t, "80", plan.MaterialNeeded.String())

	parts, err := svc.Molds.MaxProducible(ctx, mold.ID, dec("80"))
	require.NoError(t, err)
	assert.Equal(t, int64(50), parts)
}
