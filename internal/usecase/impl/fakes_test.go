package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"loyalty/config"
	"loyalty/internal/domain/entity"
	"loyalty/internal/domain/repository"
	"loyalty/internal/domain/service"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        12,
			MaxActiveSessions: maxActiveSessions,
		},
	}
}

// memStore is a shared in-memory backing store for the fake repositories.
// It does not simulate transactional rollback; tests that exercise failure
// paths assert on the returned error, success paths assert on state.
type memStore struct {
	users          map[uuid.UUID]*entity.User
	auths          []*entity.Authentication
	tokens         []*entity.RefreshToken
	devices        map[uuid.UUID]*entity.UserDevice
	missions       map[uuid.UUID]*entity.Mission
	participations map[uuid.UUID]*entity.MissionParticipation
	reviews        map[uuid.UUID]*entity.Review
	likes          map[uuid.UUID]map[uuid.UUID]bool
	comments       map[uuid.UUID]*entity.ReviewComment
	items          map[uuid.UUID]*entity.RedemptionItem
	requests       map[uuid.UUID]*entity.RedemptionRequest
	ledger         []*entity.PointTransaction
	seq            int
}

func newMemStore() *memStore {
	return &memStore{
		users:          make(map[uuid.UUID]*entity.User),
		devices:        make(map[uuid.UUID]*entity.UserDevice),
		missions:       make(map[uuid.UUID]*entity.Mission),
		participations: make(map[uuid.UUID]*entity.MissionParticipation),
		reviews:        make(map[uuid.UUID]*entity.Review),
		likes:          make(map[uuid.UUID]map[uuid.UUID]bool),
		comments:       make(map[uuid.UUID]*entity.ReviewComment),
		items:          make(map[uuid.UUID]*entity.RedemptionItem),
		requests:       make(map[uuid.UUID]*entity.RedemptionRequest),
	}
}

func (s *memStore) nextSeq() int {
	s.seq++

	return s.seq
}

// addUser seeds a member with a balance, without a ledger trail.
func (s *memStore) addUser(points int) *entity.User {
	user := &entity.User{
		ID:     uuid.New(),
		Email:  fmt.Sprintf("user-%d@example.com", s.nextSeq()),
		Name:   "Test User",
		Roles:  []string{"user"},
		Points: points,
	}
	s.users[user.ID] = user

	return user
}

func (s *memStore) addMission(status entity.MissionStatus, reward, userLimit, totalLimit int) *entity.Mission {
	mission := &entity.Mission{
		ID:           uuid.New(),
		Title:        "Test Mission",
		Type:         entity.MissionTypeReceipt,
		Status:       status,
		PointsReward: reward,
		StartsAt:     time.Now().Add(-time.Hour),
		UserLimit:    userLimit,
		TotalLimit:   totalLimit,
	}
	s.missions[mission.ID] = mission

	return mission
}

func (s *memStore) addItem(cost int, stock *int, active bool) *entity.RedemptionItem {
	item := &entity.RedemptionItem{
		ID:         uuid.New(),
		Name:       "Test Reward",
		PointsCost: cost,
		Stock:      stock,
		IsActive:   active,
	}
	s.items[item.ID] = item

	return item
}

// --- transaction manager and factory ---

type fakeTxManager struct {
	factory *fakeFactory
}

func newFakeTxManager(store *memStore) *fakeTxManager {
	return &fakeTxManager{factory: &fakeFactory{store: store}}
}

func (m *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type fakeFactory struct {
	store *memStore
}

func (f *fakeFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{f.store} }
func (f *fakeFactory) AuthRepo() repository.AuthRepository { return &fakeAuthRepo{f.store} }
func (f *fakeFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &fakeRefreshTokenRepo{f.store}
}
func (f *fakeFactory) DeviceRepo() repository.DeviceRepository   { return &fakeDeviceRepo{f.store} }
func (f *fakeFactory) MissionRepo() repository.MissionRepository { return &fakeMissionRepo{f.store} }
func (f *fakeFactory) ParticipationRepo() repository.ParticipationRepository {
	return &fakeParticipationRepo{f.store}
}
func (f *fakeFactory) ReviewRepo() repository.ReviewRepository { return &fakeReviewRepo{f.store} }
func (f *fakeFactory) RedemptionRepo() repository.RedemptionRepository {
	return &fakeRedemptionRepo{f.store}
}
func (f *fakeFactory) PointTxRepo() repository.PointTransactionRepository {
	return &fakePointTxRepo{f.store}
}

// --- user repository ---

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.store.users[user.ID] = user

	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	stored, ok := r.store.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	points := stored.Points
	*stored = *user
	stored.Points = points

	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, int64, error) {
	var users []*entity.User
	for _, user := range r.store.users {
		if filter.Search != "" && !strings.Contains(user.Email, filter.Search) && !strings.Contains(user.Name, filter.Search) {
			continue
		}
		users = append(users, user)
	}

	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, userID uuid.UUID, delta int) error {
	user, ok := r.store.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if user.Points+delta < 0 {
		return repository.ErrBalanceWouldGoNegative
	}
	user.Points += delta

	return nil
}

func (r *fakeUserRepo) SetPoints(ctx context.Context, userID uuid.UUID, points int) error {
	user, ok := r.store.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.Points = points

	return nil
}

// --- auth repository ---

type fakeAuthRepo struct{ store *memStore }

func (r *fakeAuthRepo) Create(ctx context.Context, auth *entity.Authentication) error {
	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	r.store.auths = append(r.store.auths, auth)

	return nil
}

func (r *fakeAuthRepo) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.Authentication, error) {
	for _, auth := range r.store.auths {
		if auth.UserID == userID && auth.Provider == provider {
			return auth, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) UpdatePasswordHash(ctx context.Context, authID uuid.UUID, passwordHash string) error {
	for _, auth := range r.store.auths {
		if auth.ID == authID {
			auth.PasswordHash = passwordHash

			return nil
		}
	}

	return repository.ErrAuthNotFound
}

// --- refresh token repository ---

type fakeRefreshTokenRepo struct{ store *memStore }

func (r *fakeRefreshTokenRepo) Create(ctx context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().Add(time.Duration(r.store.nextSeq()) * time.Millisecond)
	}
	r.store.tokens = append(r.store.tokens, token)

	return nil
}

func (r *fakeRefreshTokenRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	for _, token := range r.store.tokens {
		if token.TokenHash == tokenHash {
			return token, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	for idx, token := range r.store.tokens {
		if token.TokenHash == tokenHash {
			r.store.tokens = append(r.store.tokens[:idx], r.store.tokens[idx+1:]...)

			return nil
		}
	}

	return repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	kept := r.store.tokens[:0]
	for _, token := range r.store.tokens {
		if token.UserID != userID {
			kept = append(kept, token)
		}
	}
	r.store.tokens = kept

	return nil
}

func (r *fakeRefreshTokenRepo) CountActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, token := range r.store.tokens {
		if token.UserID == userID && token.ExpiresAt.After(now) {
			count++
		}
	}

	return count, nil
}

func (r *fakeRefreshTokenRepo) DeleteOldestByUser(ctx context.Context, userID uuid.UUID, keep int) error {
	var mine []*entity.RefreshToken
	for _, token := range r.store.tokens {
		if token.UserID == userID {
			mine = append(mine, token)
		}
	}
	if len(mine) <= keep {
		return nil
	}

	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.Before(mine[j].CreatedAt) })
	drop := make(map[uuid.UUID]bool, len(mine)-keep)
	for _, token := range mine[:len(mine)-keep] {
		drop[token.ID] = true
	}

	kept := r.store.tokens[:0]
	for _, token := range r.store.tokens {
		if !drop[token.ID] {
			kept = append(kept, token)
		}
	}
	r.store.tokens = kept

	return nil
}

// --- device repository ---

type fakeDeviceRepo struct{ store *memStore }

func (r *fakeDeviceRepo) Create(ctx context.Context, device *entity.UserDevice) error {
	for _, existing := range r.store.devices {
		if existing.DeviceID == device.DeviceID {
			return repository.ErrDuplicateDevice
		}
	}
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	r.store.devices[device.ID] = device

	return nil
}

func (r *fakeDeviceRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	var devices []*entity.UserDevice
	for _, device := range r.store.devices {
		if device.UserID == userID && device.IsActive {
			devices = append(devices, device)
		}
	}

	return devices, nil
}

func (r *fakeDeviceRepo) UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error {
	device, ok := r.store.devices[deviceID]
	if !ok {
		return repository.ErrDeviceNotFound
	}
	device.FCMToken = fcmToken

	return nil
}

func (r *fakeDeviceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.devices[id]; !ok {
		return repository.ErrDeviceNotFound
	}
	delete(r.store.devices, id)

	return nil
}

// --- mission repository ---

type fakeMissionRepo struct{ store *memStore }

func (r *fakeMissionRepo) Create(ctx context.Context, mission *entity.Mission) error {
	if mission.ID == uuid.Nil {
		mission.ID = uuid.New()
	}
	r.store.missions[mission.ID] = mission

	return nil
}

func (r *fakeMissionRepo) Update(ctx context.Context, mission *entity.Mission) error {
	if _, ok := r.store.missions[mission.ID]; !ok {
		return repository.ErrMissionNotFound
	}
	r.store.missions[mission.ID] = mission

	return nil
}

func (r *fakeMissionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.missions[id]; !ok {
		return repository.ErrMissionNotFound
	}
	delete(r.store.missions, id)

	return nil
}

func (r *fakeMissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	mission, ok := r.store.missions[id]
	if !ok {
		return nil, repository.ErrMissionNotFound
	}

	return mission, nil
}

func (r *fakeMissionRepo) List(ctx context.Context, filter repository.MissionFilter) ([]*entity.Mission, int64, error) {
	var missions []*entity.Mission
	for _, mission := range r.store.missions {
		if filter.Type != "" && mission.Type != filter.Type {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if mission.Status == status {
					match = true

					break
				}
			}
			if !match {
				continue
			}
		}
		missions = append(missions, mission)
	}

	return missions, int64(len(missions)), nil
}

func (r *fakeMissionRepo) ListOpen(ctx context.Context, now time.Time) ([]*entity.Mission, error) {
	var missions []*entity.Mission
	for _, mission := range r.store.missions {
		if mission.IsOpenAt(now) {
			missions = append(missions, mission)
		}
	}

	return missions, nil
}

// --- participation repository ---

type fakeParticipationRepo struct{ store *memStore }

func (r *fakeParticipationRepo) Create(ctx context.Context, participation *entity.MissionParticipation) error {
	if participation.ID == uuid.Nil {
		participation.ID = uuid.New()
	}
	r.store.participations[participation.ID] = participation

	return nil
}

func (r *fakeParticipationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
	participation, ok := r.store.participations[id]
	if !ok {
		return nil, repository.ErrParticipationNotFound
	}

	return participation, nil
}

func (r *fakeParticipationRepo) ListModerated(ctx context.Context, filter repository.ParticipationFilter) ([]*entity.ModeratedParticipation, int64, error) {
	var rows []*entity.ModeratedParticipation
	for _, participation := range r.store.participations {
		if filter.Status != "" && participation.Status != filter.Status {
			continue
		}
		if filter.MissionID != uuid.Nil && participation.MissionID != filter.MissionID {
			continue
		}
		if filter.UserID != uuid.Nil && participation.UserID != filter.UserID {
			continue
		}

		row := &entity.ModeratedParticipation{Participation: participation}
		if user, ok := r.store.users[participation.UserID]; ok {
			row.UserName = user.Name
			row.UserEmail = user.Email
		} else {
			row.UserDeleted = true
		}
		if mission, ok := r.store.missions[participation.MissionID]; ok {
			row.MissionTitle = mission.Title
			row.MissionPoints = mission.PointsReward
		} else {
			row.MissionDeleted = true
		}
		rows = append(rows, row)
	}

	return rows, int64(len(rows)), nil
}

func (r *fakeParticipationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.MissionParticipation, error) {
	var rows []*entity.MissionParticipation
	for _, participation := range r.store.participations {
		if participation.UserID == userID {
			rows = append(rows, participation)
		}
	}

	return rows, nil
}

func (r *fakeParticipationRepo) CountByMission(ctx context.Context, missionID uuid.UUID) (int64, error) {
	var count int64
	for _, participation := range r.store.participations {
		if participation.MissionID == missionID && participation.Status != entity.ParticipationStatusRejected {
			count++
		}
	}

	return count, nil
}

func (r *fakeParticipationRepo) CountByMissionAndUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error) {
	var count int64
	for _, participation := range r.store.participations {
		if participation.MissionID == missionID && participation.UserID == userID &&
			participation.Status != entity.ParticipationStatusRejected {
			count++
		}
	}

	return count, nil
}

func (r *fakeParticipationRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.ParticipationStatus, note string, moderatedAt time.Time) (bool, error) {
	participation, ok := r.store.participations[id]
	if !ok || participation.Status != entity.ParticipationStatusPending {
		return false, nil
	}
	participation.Status = status
	participation.ReviewerNote = note
	participation.ModeratedAt = &moderatedAt

	return true, nil
}

// --- review repository ---

type fakeReviewRepo struct{ store *memStore }

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	r.store.reviews[review.ID] = review

	return nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	if _, ok := r.store.reviews[review.ID]; !ok {
		return repository.ErrReviewNotFound
	}
	r.store.reviews[review.ID] = review

	return nil
}

func (r *fakeReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	review, ok := r.store.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}

	// A database read is a snapshot, not an alias of the stored row.
	copied := *review

	return &copied, nil
}

func (r *fakeReviewRepo) List(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, int64, error) {
	var reviews []*entity.Review
	for _, review := range r.store.reviews {
		if filter.Status != "" && review.Status != filter.Status {
			continue
		}
		if filter.AuthorID != uuid.Nil && review.AuthorID != filter.AuthorID {
			continue
		}
		reviews = append(reviews, review)
	}

	return reviews, int64(len(reviews)), nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(r.store.reviews, id)

	return nil
}

func (r *fakeReviewRepo) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	review, ok := r.store.reviews[id]
	if !ok {
		return repository.ErrReviewNotFound
	}
	review.ViewCount++

	return nil
}

func (r *fakeReviewRepo) CreateLike(ctx context.Context, like *entity.ReviewLike) error {
	if r.store.likes[like.ReviewID] == nil {
		r.store.likes[like.ReviewID] = make(map[uuid.UUID]bool)
	}
	if r.store.likes[like.ReviewID][like.UserID] {
		return repository.ErrDuplicateLike
	}
	r.store.likes[like.ReviewID][like.UserID] = true

	return nil
}

func (r *fakeReviewRepo) DeleteLike(ctx context.Context, reviewID, userID uuid.UUID) error {
	if !r.store.likes[reviewID][userID] {
		return repository.ErrLikeNotFound
	}
	delete(r.store.likes[reviewID], userID)

	return nil
}

func (r *fakeReviewRepo) CountLikes(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	return int64(len(r.store.likes[reviewID])), nil
}

func (r *fakeReviewRepo) DeleteLikesByReview(ctx context.Context, reviewID uuid.UUID) error {
	delete(r.store.likes, reviewID)

	return nil
}

func (r *fakeReviewRepo) SetLikesCount(ctx context.Context, reviewID uuid.UUID, count int) error {
	review, ok := r.store.reviews[reviewID]
	if !ok {
		return repository.ErrReviewNotFound
	}
	review.LikesCount = count

	return nil
}

func (r *fakeReviewRepo) CreateComment(ctx context.Context, comment *entity.ReviewComment) error {
	if _, ok := r.store.reviews[comment.ReviewID]; !ok {
		return repository.ErrReviewNotFound
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	r.store.comments[comment.ID] = comment

	return nil
}

func (r *fakeReviewRepo) FindCommentByID(ctx context.Context, id uuid.UUID) (*entity.ReviewComment, error) {
	comment, ok := r.store.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}

	return comment, nil
}

func (r *fakeReviewRepo) ListComments(ctx context.Context, reviewID uuid.UUID) ([]*entity.ReviewComment, error) {
	var comments []*entity.ReviewComment
	for _, comment := range r.store.comments {
		if comment.ReviewID == reviewID {
			comments = append(comments, comment)
		}
	}

	return comments, nil
}

func (r *fakeReviewRepo) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(r.store.comments, id)

	return nil
}

func (r *fakeReviewRepo) DeleteCommentsByReview(ctx context.Context, reviewID uuid.UUID) error {
	for id, comment := range r.store.comments {
		if comment.ReviewID == reviewID {
			delete(r.store.comments, id)
		}
	}

	return nil
}

// --- redemption repository ---

type fakeRedemptionRepo struct{ store *memStore }

func (r *fakeRedemptionRepo) CreateItem(ctx context.Context, item *entity.RedemptionItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.store.items[item.ID] = item

	return nil
}

func (r *fakeRedemptionRepo) UpdateItem(ctx context.Context, item *entity.RedemptionItem) error {
	if _, ok := r.store.items[item.ID]; !ok {
		return repository.ErrRedemptionItemNotFound
	}
	r.store.items[item.ID] = item

	return nil
}

func (r *fakeRedemptionRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.store.items[id]; !ok {
		return repository.ErrRedemptionItemNotFound
	}
	delete(r.store.items, id)

	return nil
}

func (r *fakeRedemptionRepo) FindItemByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionItem, error) {
	item, ok := r.store.items[id]
	if !ok {
		return nil, repository.ErrRedemptionItemNotFound
	}

	return item, nil
}

func (r *fakeRedemptionRepo) ListItems(ctx context.Context, activeOnly bool) ([]*entity.RedemptionItem, error) {
	var items []*entity.RedemptionItem
	for _, item := range r.store.items {
		if activeOnly && !item.IsActive {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (r *fakeRedemptionRepo) DecrementStock(ctx context.Context, itemID uuid.UUID) error {
	item, ok := r.store.items[itemID]
	if !ok {
		return repository.ErrRedemptionItemNotFound
	}
	if item.Stock == nil {
		return nil
	}
	if *item.Stock <= 0 {
		return repository.ErrOutOfStock
	}
	*item.Stock--

	return nil
}

func (r *fakeRedemptionRepo) IncrementStock(ctx context.Context, itemID uuid.UUID) error {
	item, ok := r.store.items[itemID]
	if !ok {
		return repository.ErrRedemptionItemNotFound
	}
	if item.Stock != nil {
		*item.Stock++
	}

	return nil
}

func (r *fakeRedemptionRepo) CreateRequest(ctx context.Context, request *entity.RedemptionRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.store.requests[request.ID] = request

	return nil
}

func (r *fakeRedemptionRepo) FindRequestByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
	request, ok := r.store.requests[id]
	if !ok {
		return nil, repository.ErrRedemptionNotFound
	}

	return request, nil
}

func (r *fakeRedemptionRepo) ListRequests(ctx context.Context, filter repository.RedemptionRequestFilter) ([]*entity.RedemptionRequest, int64, error) {
	var requests []*entity.RedemptionRequest
	for _, request := range r.store.requests {
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		if filter.UserID != uuid.Nil && request.UserID != filter.UserID {
			continue
		}
		requests = append(requests, request)
	}

	return requests, int64(len(requests)), nil
}

func (r *fakeRedemptionRepo) UpdateRequestStatusIfPending(ctx context.Context, id uuid.UUID, status entity.RedemptionStatus) (bool, error) {
	request, ok := r.store.requests[id]
	if !ok || request.Status != entity.RedemptionStatusPending {
		return false, nil
	}
	request.Status = status

	return true, nil
}

// --- point transaction repository ---

type fakePointTxRepo struct{ store *memStore }

func (r *fakePointTxRepo) Create(ctx context.Context, tx *entity.PointTransaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	r.store.ledger = append(r.store.ledger, tx)

	return nil
}

func (r *fakePointTxRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.PointTransaction, int64, error) {
	var rows []*entity.PointTransaction
	for idx := len(r.store.ledger) - 1; idx >= 0; idx-- {
		if r.store.ledger[idx].UserID == userID {
			rows = append(rows, r.store.ledger[idx])
		}
	}

	return rows, int64(len(rows)), nil
}

func (r *fakePointTxRepo) SumByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	sum := 0
	for _, row := range r.store.ledger {
		if row.UserID == userID {
			sum += row.Amount
		}
	}

	return sum, nil
}

// --- domain service fakes ---

// fakeHasher hashes with a reversible marker so tests can mint hashes directly.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

// fakeTokenService issues sequential tokens and remembers their claims.
type fakeTokenService struct {
	seq    int
	issued map[string]*service.Claims
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{issued: make(map[string]*service.Claims)}
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	s.seq++
	access := fmt.Sprintf("access-%d", s.seq)
	refresh := fmt.Sprintf("refresh-%d", s.seq)
	s.issued[access] = &service.Claims{UserID: userID, Roles: roles, Type: "access"}
	s.issued[refresh] = &service.Claims{UserID: userID, Roles: roles, Type: "refresh"}

	return access, refresh, nil
}

func (s *fakeTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	claims, ok := s.issued[tokenString]
	if !ok || claims.Type != "access" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func (s *fakeTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	claims, ok := s.issued[tokenString]
	if !ok || claims.Type != "refresh" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration { return 7 * 24 * time.Hour }

// capturePublisher records published events for assertions.
type capturePublisher struct {
	events []*service.LoyaltyEvent
}

func (p *capturePublisher) PublishLoyaltyEvent(ctx context.Context, event *service.LoyaltyEvent) error {
	p.events = append(p.events, event)

	return nil
}

func (p *capturePublisher) Close() error { return nil }
