package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"skofie/internal/cache"
	"skofie/internal/events"
	"skofie/internal/models"
)

// ===============================
// REPOSITORY FAKES
// ===============================

type fakeUserRepo struct {
	createFn     func(ctx context.Context, user *models.User) error
	getByIDFn    func(ctx context.Context, id string) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	enrolledFn   func(ctx context.Context, userID string) ([]string, error)
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeUserRepo) GetEnrolledCourseIDs(ctx context.Context, userID string) ([]string, error) {
	if f.enrolledFn != nil {
		return f.enrolledFn(ctx, userID)
	}
	return []string{}, nil
}

type fakeCategoryRepo struct {
	listFn    func(ctx context.Context) ([]models.Category, error)
	getByIDFn func(ctx context.Context, id string) (*models.Category, error)
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return f.listFn(ctx)
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return f.getByIDFn(ctx, id)
}

type fakeCourseRepo struct {
	createFn      func(ctx context.Context, course *models.Course) error
	getByIDFn     func(ctx context.Context, id string) (*models.Course, error)
	listFn        func(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	listByIDsFn   func(ctx context.Context, ids []string) ([]models.Course, error)
	incrementedID string
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	return f.createFn(ctx, course)
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeCourseRepo) ListByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if f.listByIDsFn != nil {
		return f.listByIDsFn(ctx, ids)
	}
	return []models.Course{}, nil
}

func (f *fakeCourseRepo) IncrementEnrolledCountTx(ctx context.Context, tx *sql.Tx, courseID string) error {
	f.incrementedID = courseID
	return nil
}

type fakeEnrollmentRepo struct {
	existsFn             func(ctx context.Context, userID, courseID string) (bool, error)
	created              [][2]string
	count                int64
	distinctCategories   int64
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, userID, courseID)
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID, courseID string) error {
	f.created = append(f.created, [2]string{userID, courseID})
	return nil
}

func (f *fakeEnrollmentRepo) CountTx(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	return f.count, nil
}

func (f *fakeEnrollmentRepo) DistinctCategoriesTx(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	return f.distinctCategories, nil
}

type fakePaymentRepo struct {
	createTxFn           func(ctx context.Context, tx *sql.Tx, payment *models.Payment) error
	getByUserAndCourseFn func(ctx context.Context, userID, courseID string) (*models.Payment, error)
	listByUserFn         func(ctx context.Context, userID string) ([]models.Payment, error)
	paymentCount         int64
	totalSpent           int64
	created              []*models.Payment
}

func (f *fakePaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, payment *models.Payment) error {
	if f.createTxFn != nil {
		return f.createTxFn(ctx, tx, payment)
	}
	payment.CreatedAt = time.Now()
	f.created = append(f.created, payment)
	return nil
}

func (f *fakePaymentRepo) GetByUserAndCourse(ctx context.Context, userID, courseID string) (*models.Payment, error) {
	return f.getByUserAndCourseFn(ctx, userID, courseID)
}

func (f *fakePaymentRepo) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}
	return []models.Payment{}, nil
}

func (f *fakePaymentRepo) AggregateTx(ctx context.Context, tx *sql.Tx, userID string) (int64, int64, error) {
	return f.paymentCount, f.totalSpent, nil
}

func (f *fakePaymentRepo) TotalSpent(ctx context.Context, userID string) (int64, error) {
	return f.totalSpent, nil
}

type fakeBadgeRepo struct {
	awarded []string
	listFn  func(ctx context.Context, userID string) ([]string, error)
}

func (f *fakeBadgeRepo) AwardTx(ctx context.Context, tx *sql.Tx, userID, badgeID string) (bool, error) {
	for _, id := range f.awarded {
		if id == badgeID {
			return false, nil
		}
	}
	f.awarded = append(f.awarded, badgeID)
	return true, nil
}

func (f *fakeBadgeRepo) ListIDsByUser(ctx context.Context, userID string) ([]string, error) {
	if f.listFn != nil {
		return f.listFn(ctx, userID)
	}
	return append([]string{}, f.awarded...), nil
}

type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// ===============================
// CACHE AND EVENT BUS FAKES
// ===============================

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.items[key]
	return data, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[key] = value
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (f *fakeCache) Stats(ctx context.Context) (*cache.Stats, error) { return &cache.Stats{}, nil }

func (f *fakeCache) Health(ctx context.Context) error { return nil }

func (f *fakeCache) Close() error { return nil }

type fakeEventBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeEventBus) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventBus) Subscribe(eventType string, handler events.EventHandler) {}

func (f *fakeEventBus) Stats() events.Stats { return events.Stats{} }

func (f *fakeEventBus) Stop() {}

func (f *fakeEventBus) published(eventType string) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []events.Event
	for _, e := range f.events {
		if e.GetEventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
