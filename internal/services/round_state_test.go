package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhzahjr07/lpl-auction-system/internal/domain"
)

func unsoldPlayer(id int64, basePrice float64) *domain.Player {
	return &domain.Player{
		ID:        id,
		Name:      "Player",
		Role:      domain.RoleBatsman,
		Country:   "Sri Lanka",
		BasePrice: basePrice,
		Status:    domain.PlayerUnsold,
	}
}

func team(id int64, name string, budget float64) *domain.Team {
	return &domain.Team{
		ID:              id,
		Name:            name,
		LogoURL:         "https://cdn.example/" + name + ".png",
		TotalBudget:     budget,
		RemainingBudget: budget,
	}
}

func TestRoundState_SnapshotEmpty(t *testing.T) {
	rs := NewRoundState(false)

	snap := rs.Snapshot()

	assert.Equal(t, "none", snap.Status)
	assert.Nil(t, snap.PlayerID)
	assert.Nil(t, snap.LeaderTeamID)
	assert.Nil(t, snap.OpenedAt)
	assert.Zero(t, snap.CurrentPrice)
}

func TestRoundState_OpenInstallsBasePrice(t *testing.T) {
	rs := NewRoundState(false)

	snap, err := rs.Open(unsoldPlayer(7, 100))
	require.NoError(t, err)

	assert.Equal(t, "open", snap.Status)
	require.NotNil(t, snap.PlayerID)
	assert.Equal(t, int64(7), *snap.PlayerID)
	assert.Equal(t, 100.0, snap.CurrentPrice)
	assert.Nil(t, snap.LeaderTeamID, "a fresh round has no leader")
	assert.NotNil(t, snap.OpenedAt)
}

func TestRoundState_OpenWhileOpenFails(t *testing.T) {
	rs := NewRoundState(false)

	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	before := rs.Snapshot()
	_, err = rs.Open(unsoldPlayer(2, 200))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, before, rs.Snapshot(), "failed open must not change state")
}

func TestRoundState_OpenRejectsNonUnsoldPlayer(t *testing.T) {
	tests := []struct {
		name   string
		status domain.PlayerStatus
	}{
		{"sold player", domain.PlayerSold},
		{"retained player", domain.PlayerUnsoldRetained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewRoundState(false)
			player := unsoldPlayer(1, 100)
			player.Status = tt.status

			_, err := rs.Open(player)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Equal(t, "none", rs.Snapshot().Status)
		})
	}
}

func TestRoundState_AdmitBidTracksPriceAndLeader(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	jaffna := team(10, "Jaffna", 1_000_000)
	colombo := team(11, "Colombo", 2_000_000)

	// After every accepted bid the price equals that bid's amount and
	// the leader is that bid's team.
	steps := []struct {
		team   *domain.Team
		amount float64
	}{
		{jaffna, 500},
		{colombo, 700},
		{jaffna, 700}, // tie, admitted under the lenient rule
		{colombo, 650}, // lower, also admitted
	}

	for _, step := range steps {
		_, err := rs.AdmitBid(step.team, 1, step.amount, nil)
		require.NoError(t, err)

		snap := rs.Snapshot()
		assert.Equal(t, step.amount, snap.CurrentPrice)
		require.NotNil(t, snap.LeaderTeamID)
		assert.Equal(t, step.team.ID, *snap.LeaderTeamID)
		assert.Equal(t, step.team.Name, snap.LeaderName)
	}
}

func TestRoundState_SeqIncreasesPerAcceptedBid(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	jaffna := team(10, "Jaffna", 1_000_000)

	first, err := rs.AdmitBid(jaffna, 1, 200, nil)
	require.NoError(t, err)
	second, err := rs.AdmitBid(jaffna, 1, 300, nil)
	require.NoError(t, err)

	assert.Greater(t, second, first)
	assert.Equal(t, second, rs.Snapshot().Seq)
}

func TestRoundState_AdmitBidNoRound(t *testing.T) {
	rs := NewRoundState(false)

	_, err := rs.AdmitBid(team(10, "Jaffna", 1_000_000), 1, 200, nil)
	assert.ErrorIs(t, err, domain.ErrNoActiveRound)
}

func TestRoundState_AdmitBidWrongPlayer(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	_, err = rs.AdmitBid(team(10, "Jaffna", 1_000_000), 2, 200, nil)
	assert.ErrorIs(t, err, domain.ErrNoActiveRound)
	assert.Equal(t, 100.0, rs.Snapshot().CurrentPrice)
}

func TestRoundState_AdmitBidOverBudget(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	jaffna := team(10, "Jaffna", 1_000_000)

	_, err = rs.AdmitBid(jaffna, 1, 1_500_000, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	snap := rs.Snapshot()
	assert.Equal(t, 100.0, snap.CurrentPrice, "rejected bid must not move the price")
	assert.Nil(t, snap.LeaderTeamID)
}

func TestRoundState_CumulativeHoldsPerRound(t *testing.T) {
	// Admitted amounts from one team reserve budget for the round, so
	// a batch can never collectively overrun the budget.
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	jaffna := team(10, "Jaffna", 1_000_000)

	_, err = rs.AdmitBid(jaffna, 1, 600_000, nil)
	require.NoError(t, err)

	_, err = rs.AdmitBid(jaffna, 1, 600_000, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = rs.AdmitBid(jaffna, 1, 400_000, nil)
	assert.NoError(t, err, "600k + 400k fits the 1M budget exactly")
}

func TestRoundState_HoldsResetOnClear(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	jaffna := team(10, "Jaffna", 1_000_000)
	_, err = rs.AdmitBid(jaffna, 1, 900_000, nil)
	require.NoError(t, err)

	rs.Clear()

	_, err = rs.Open(unsoldPlayer(2, 50))
	require.NoError(t, err)
	_, err = rs.AdmitBid(jaffna, 2, 900_000, nil)
	assert.NoError(t, err, "holds from a settled round must not leak into the next")
}

func TestRoundState_StrictPolicyRejectsTies(t *testing.T) {
	rs := NewRoundState(true)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	jaffna := team(10, "Jaffna", 1_000_000)
	colombo := team(11, "Colombo", 1_000_000)

	_, err = rs.AdmitBid(jaffna, 1, 200, nil)
	require.NoError(t, err)

	_, err = rs.AdmitBid(colombo, 1, 200, nil)
	assert.ErrorIs(t, err, domain.ErrBidTooLow)
	_, err = rs.AdmitBid(colombo, 1, 150, nil)
	assert.ErrorIs(t, err, domain.ErrBidTooLow)

	_, err = rs.AdmitBid(colombo, 1, 250, nil)
	assert.NoError(t, err)
}

func TestRoundState_PersistFailureAppliesNothing(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	jaffna := team(10, "Jaffna", 1_000_000)
	before := rs.Snapshot()

	_, err = rs.AdmitBid(jaffna, 1, 500, func() error { return errStoreDown })
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, before, rs.Snapshot())

	// The failed attempt must not leave a hold behind either.
	_, err = rs.AdmitBid(jaffna, 1, 1_000_000, nil)
	assert.NoError(t, err)
}

func TestRoundState_SettlementBlocksAdmission(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	_, err = rs.BeginSettlement(1)
	require.NoError(t, err)

	_, err = rs.AdmitBid(team(10, "Jaffna", 1_000_000), 1, 500, nil)
	assert.ErrorIs(t, err, domain.ErrNoActiveRound)
}

func TestRoundState_BeginSettlementRequiresOpenRound(t *testing.T) {
	rs := NewRoundState(false)

	_, err := rs.BeginSettlement(1)
	assert.ErrorIs(t, err, domain.ErrNoActiveRound)

	_, err = rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	_, err = rs.BeginSettlement(2)
	assert.ErrorIs(t, err, domain.ErrNoActiveRound)
}

func TestRoundState_AbortSettlementReopens(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)

	_, err = rs.BeginSettlement(1)
	require.NoError(t, err)

	rs.AbortSettlement()

	assert.Equal(t, "open", rs.Snapshot().Status)
	_, err = rs.AdmitBid(team(10, "Jaffna", 1_000_000), 1, 500, nil)
	assert.NoError(t, err, "bids flow again after an aborted settlement")
}

func TestRoundState_ClearReturnsPriorAndResets(t *testing.T) {
	rs := NewRoundState(false)
	_, err := rs.Open(unsoldPlayer(1, 100))
	require.NoError(t, err)
	_, err = rs.AdmitBid(team(10, "Jaffna", 1_000_000), 1, 500, nil)
	require.NoError(t, err)

	prior := rs.Clear()
	assert.Equal(t, "open", prior.Status)
	assert.Equal(t, 500.0, prior.CurrentPrice)

	snap := rs.Snapshot()
	assert.Equal(t, "none", snap.Status)
	assert.Nil(t, snap.PlayerID)
	assert.Nil(t, snap.LeaderTeamID)
	assert.Zero(t, snap.CurrentPrice)
}
