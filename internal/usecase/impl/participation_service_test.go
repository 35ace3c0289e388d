package impl

import (
	"context"
	"testing"

	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/service"
	"loyalty/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type participationServiceFixtures struct {
	service   usecase.ParticipationUsecase
	store     *memStore
	publisher *capturePublisher
}

func createTestParticipationService(t *testing.T) participationServiceFixtures {
	t.Helper()

	store := newMemStore()
	publisher := &capturePublisher{}
	service := NewParticipationService(ParticipationServiceParams{
		TxManager:      newFakeTxManager(store),
		EventPublisher: publisher,
		Logger:         newDiscardLogger(),
	})

	return participationServiceFixtures{service: service, store: store, publisher: publisher}
}

func TestParticipationService_Submit_Success(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 0, 0)

	participation, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{
		MissionID:      mission.ID,
		SubmissionData: map[string]any{"receipt_url": "https://cdn.example.com/r.jpg"},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ParticipationStatusPending, participation.Status)
	assert.Equal(t, mission.ID, participation.MissionID)
	assert.Len(t, fx.store.participations, 1)
}

func TestParticipationService_Submit_MissionNotOpen(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusDraft, 100, 0, 0)

	_, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{
		MissionID: mission.ID,
	})

	assert.True(t, errors.Is(err, domainerrors.ErrMissionNotOpen))
	assert.Empty(t, fx.store.participations)
}

func TestParticipationService_Submit_UserLimitReached(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 1, 0)

	_, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	_, err = fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	assert.True(t, errors.Is(err, domainerrors.ErrSubmissionLimitReached))
}

func TestParticipationService_Submit_RejectionFreesUserLimit(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 1, 0)

	first, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	_, err = fx.service.Reject(context.Background(), &usecase.ModerateParticipationInput{
		ParticipationID: first.ID,
		Note:            "blurry receipt",
	})
	require.NoError(t, err)

	// Rejected submissions do not count against the per-user limit.
	_, err = fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	assert.NoError(t, err)
}

func TestParticipationService_Submit_TotalLimitReached(t *testing.T) {
	fx := createTestParticipationService(t)
	alice := fx.store.addUser(0)
	bob := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 0, 1)

	_, err := fx.service.Submit(context.Background(), alice.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	_, err = fx.service.Submit(context.Background(), bob.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	assert.True(t, errors.Is(err, domainerrors.ErrSubmissionLimitReached))
}

func TestParticipationService_Approve_CreditsRewardAndLedger(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(50)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 0, 0)

	participation, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	output, err := fx.service.Approve(context.Background(), &usecase.ModerateParticipationInput{
		ParticipationID: participation.ID,
		Note:            "looks good",
	})

	require.NoError(t, err)
	assert.False(t, output.AlreadyModerated)
	assert.Equal(t, 100, output.PointsAwarded)
	assert.Equal(t, entity.ParticipationStatusApproved, output.Participation.Status)
	assert.Equal(t, "looks good", output.Participation.ReviewerNote)
	assert.NotNil(t, output.Participation.ModeratedAt)

	// Balance and ledger moved together.
	assert.Equal(t, 150, fx.store.users[user.ID].Points)
	require.Len(t, fx.store.ledger, 1)
	assert.Equal(t, 100, fx.store.ledger[0].Amount)
	assert.Equal(t, entity.PointTxMissionReward, fx.store.ledger[0].Type)
	require.NotNil(t, fx.store.ledger[0].ReferenceID)
	assert.Equal(t, participation.ID, *fx.store.ledger[0].ReferenceID)

	// Both the moderation event and the award event went out.
	require.Len(t, fx.publisher.events, 2)
	assert.Equal(t, service.EventParticipationModerated, fx.publisher.events[0].Type)
	assert.Equal(t, service.EventPointsAwarded, fx.publisher.events[1].Type)
	assert.Equal(t, 150, fx.publisher.events[1].Balance)
}

func TestParticipationService_Approve_BalanceMatchesLedgerSum(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)

	total := 0
	for _, reward := range []int{100, 250, 75} {
		mission := fx.store.addMission(entity.MissionStatusActive, reward, 0, 0)
		participation, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
		require.NoError(t, err)

		_, err = fx.service.Approve(context.Background(), &usecase.ModerateParticipationInput{ParticipationID: participation.ID})
		require.NoError(t, err)
		total += reward
	}

	assert.Equal(t, total, fx.store.users[user.ID].Points)

	ledgerSum := 0
	for _, row := range fx.store.ledger {
		ledgerSum += row.Amount
	}
	assert.Equal(t, total, ledgerSum)
}

func TestParticipationService_Approve_Twice_IsIdempotent(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 0, 0)

	participation, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	_, err = fx.service.Approve(context.Background(), &usecase.ModerateParticipationInput{ParticipationID: participation.ID})
	require.NoError(t, err)

	output, err := fx.service.Approve(context.Background(), &usecase.ModerateParticipationInput{ParticipationID: participation.ID})
	require.NoError(t, err)
	assert.True(t, output.AlreadyModerated)
	assert.Zero(t, output.PointsAwarded)

	// No double award: one ledger row, one credit.
	assert.Equal(t, 100, fx.store.users[user.ID].Points)
	assert.Len(t, fx.store.ledger, 1)
}

func TestParticipationService_Approve_AfterReject_Fails(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 0, 0)

	participation, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	_, err = fx.service.Reject(context.Background(), &usecase.ModerateParticipationInput{ParticipationID: participation.ID})
	require.NoError(t, err)

	_, err = fx.service.Approve(context.Background(), &usecase.ModerateParticipationInput{ParticipationID: participation.ID})
	assert.True(t, errors.Is(err, domainerrors.ErrParticipationModerated))
	assert.Zero(t, fx.store.users[user.ID].Points)
}

func TestParticipationService_Reject_AwardsNothing(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 0, 0)

	participation, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	output, err := fx.service.Reject(context.Background(), &usecase.ModerateParticipationInput{
		ParticipationID: participation.ID,
		Note:            "wrong product",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ParticipationStatusRejected, output.Participation.Status)
	assert.Zero(t, output.PointsAwarded)
	assert.Zero(t, fx.store.users[user.ID].Points)
	assert.Empty(t, fx.store.ledger)

	require.Len(t, fx.publisher.events, 1)
	assert.Equal(t, service.EventParticipationModerated, fx.publisher.events[0].Type)
}

func TestParticipationService_ListModerated_FlagsDeletedMission(t *testing.T) {
	fx := createTestParticipationService(t)
	user := fx.store.addUser(0)
	mission := fx.store.addMission(entity.MissionStatusActive, 100, 0, 0)

	_, err := fx.service.Submit(context.Background(), user.ID, &usecase.SubmitParticipationInput{MissionID: mission.ID})
	require.NoError(t, err)

	delete(fx.store.missions, mission.ID)

	output, err := fx.service.ListModerated(context.Background(), &usecase.ListParticipationsInput{})
	require.NoError(t, err)
	require.Len(t, output.Participations, 1)
	assert.True(t, output.Participations[0].MissionDeleted)
	assert.False(t, output.Participations[0].UserDeleted)
	assert.Equal(t, user.Name, output.Participations[0].UserName)
}
