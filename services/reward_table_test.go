package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRewardTableShape(t *testing.T) {
	table := DefaultRewardTable()

	assert.Equal(t, 9, table.NumStages())
	assert.Equal(t, 44, table.NumSubstages())

	// Every substage carries an explicit stage mapping and a positive value.
	for _, st := range table.Stages() {
		subs := table.SubstagesForStage(st.ID)
		require.NotEmpty(t, subs, "stage %s has no substages", st.ID)
		for _, s := range subs {
			assert.Equal(t, st.ID, s.StageID)
			assert.Equal(t, st.Name, s.StageName)
			assert.Greater(t, s.Coins, int64(0), "substage %s", s.ID)
			assert.NotEmpty(t, s.Type, "substage %s", s.ID)
		}
	}
}

func TestSubstageCoinsCanonicalValues(t *testing.T) {
	table := DefaultRewardTable()

	tests := []struct {
		substageID string
		want       int64
	}{
		{"pre-1", 10},
		{"pre-4", 5},
		{"pre-9", 35},
		{"res-3", 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.SubstageCoins(tt.substageID), tt.substageID)
	}
}

func TestUnknownIDsPayZeroAndAreCounted(t *testing.T) {
	table := DefaultRewardTable()

	assert.Equal(t, int64(0), table.SubstageCoins("zzz-999"))
	assert.Equal(t, int64(0), table.StageCoins("zzz"))
	assert.Equal(t, int64(0), table.SubstageCoins("zzz-999"))

	unknownStages, unknownSubstages := table.UnknownLookups()
	assert.Equal(t, int64(1), unknownStages)
	assert.Equal(t, int64(2), unknownSubstages)

	// Known lookups never bump the counters.
	table.SubstageCoins("pre-9")
	table.StageCoins("res")
	unknownStages, unknownSubstages = table.UnknownLookups()
	assert.Equal(t, int64(1), unknownStages)
	assert.Equal(t, int64(2), unknownSubstages)
}

func TestSubstageByID(t *testing.T) {
	table := DefaultRewardTable()

	s := table.SubstageByID("pre-6")
	require.NotNil(t, s)
	assert.Equal(t, "Medical Records", s.Name)
	assert.Equal(t, "pre", s.StageID)
	assert.Equal(t, "Pre-Litigation", s.StageName)

	assert.Nil(t, table.SubstageByID("nope-1"))
}

func TestStagesAreInCaseOrder(t *testing.T) {
	table := DefaultRewardTable()

	var ids []string
	for _, st := range table.Stages() {
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []string{"pre", "cf", "disc", "med", "pt", "tr", "ver", "app", "res"}, ids)
}
