package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseViewIDNewRow(t *testing.T) {
	target := ParseViewID("new:draft-1")
	assert.Equal(t, EditKindNew, target.Kind)
	assert.Empty(t, target.BackingIDs)
}

func TestParseViewIDGrouped(t *testing.T) {
	target := ParseViewID("grouped:cs101-01:rec-a:rec-b:rec-c")
	assert.Equal(t, EditKindGrouped, target.Kind)
	assert.Equal(t, []string{"rec-a", "rec-b", "rec-c"}, target.BackingIDs)
}

func TestParseViewIDGroupedPreservesOrder(t *testing.T) {
	target := ParseViewID("grouped:x:rec-b:rec-a")
	assert.Equal(t, []string{"rec-b", "rec-a"}, target.BackingIDs)
}

func TestParseViewIDSingle(t *testing.T) {
	target := ParseViewID("rec-a")
	assert.Equal(t, EditKindSingle, target.Kind)
	assert.Equal(t, "rec-a", target.ID)
	assert.Equal(t, []string{"rec-a"}, target.BackingIDs)
}

func TestGroupedViewIDRoundTrip(t *testing.T) {
	viewID := GroupedViewID("cs101-01", []string{"rec-a", "rec-b"})
	target := ParseViewID(viewID)
	require.Equal(t, EditKindGrouped, target.Kind)
	assert.Equal(t, []string{"rec-a", "rec-b"}, target.BackingIDs)
}

func TestNewRowViewIDRoundTrip(t *testing.T) {
	target := ParseViewID(NewRowViewID("token-7"))
	assert.Equal(t, EditKindNew, target.Kind)
}
