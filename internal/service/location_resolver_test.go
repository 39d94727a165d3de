package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realronaldrump/faculty-schedules-sub011/internal/models"
)

type missingCatalogStub struct{}

func (missingCatalogStub) FindByBuildingAndNumber(ctx context.Context, buildingCode, spaceNumber string) (*models.Space, error) {
	return nil, sql.ErrNoRows
}

func TestResolveOnlineSection(t *testing.T) {
	resolver := NewLocationResolver(catalogStub{}, nil)

	loc, err := resolver.Resolve(context.Background(), "GOEBEL 101", true, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.LocationTypeNoRoom, loc.Type)
	assert.Empty(t, loc.SpaceIDs)
}

func TestResolveIndependentStudyType(t *testing.T) {
	resolver := NewLocationResolver(catalogStub{}, nil)

	loc, err := resolver.Resolve(context.Background(), "GOEBEL 101", false, "Independent Study", nil)
	require.NoError(t, err)
	assert.Equal(t, models.LocationTypeNoRoom, loc.Type)
}

func TestResolveAllTokensNoRoom(t *testing.T) {
	resolver := NewLocationResolver(catalogStub{}, nil)

	loc, err := resolver.Resolve(context.Background(), "ONLINE; No Room Needed", false, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.LocationTypeNoRoom, loc.Type)
	assert.Empty(t, loc.SpaceIDs)
}

func TestResolveKeepsRoomDropsOnlineToken(t *testing.T) {
	resolver := NewLocationResolver(catalogStub{}, nil)

	loc, err := resolver.Resolve(context.Background(), "GOEBEL 101; ONLINE", false, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.LocationTypeRoom, loc.Type)
	assert.Equal(t, models.StringList{"GOEBEL-101"}, loc.SpaceIDs)
	assert.Equal(t, models.StringList{"GOEBEL 101"}, loc.SpaceNames)
}

func TestResolveDeduplicatesRooms(t *testing.T) {
	resolver := NewLocationResolver(catalogStub{}, nil)

	loc, err := resolver.Resolve(context.Background(), "GOEBEL 101; goebel 101", false, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"GOEBEL-101"}, loc.SpaceIDs)
}

func TestResolveFallsBackWhenCatalogMisses(t *testing.T) {
	resolver := NewLocationResolver(missingCatalogStub{}, nil)

	loc, err := resolver.Resolve(context.Background(), "Draper 303", false, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"DRAPER-303"}, loc.SpaceIDs)
	assert.Equal(t, models.StringList{"DRAPER 303"}, loc.SpaceNames)
}

func TestResolveCarriesForwardUnparseableNoOpEdit(t *testing.T) {
	resolver := NewLocationResolver(catalogStub{}, nil)
	prev := &models.ScheduleRecord{
		SpaceIDs:   models.StringList{"space-1"},
		SpaceNames: models.StringList{"TBA"},
	}

	loc, err := resolver.Resolve(context.Background(), "TBA", false, "", prev)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"space-1"}, loc.SpaceIDs)
	assert.Equal(t, models.StringList{"TBA"}, loc.SpaceNames)
	assert.Equal(t, models.LocationTypeRoom, loc.Type)
}

func TestResolveEmptyInput(t *testing.T) {
	resolver := NewLocationResolver(catalogStub{}, nil)

	loc, err := resolver.Resolve(context.Background(), "", false, "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.LocationTypeRoom, loc.Type)
	assert.Empty(t, loc.SpaceIDs)
}
