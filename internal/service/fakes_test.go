package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/consultancy-service/internal/domain"
	"github.com/spec-kit/consultancy-service/internal/repository"
)

// In-memory repository fakes. The booking fake reproduces the
// compare-and-set slot reservation under a mutex so concurrency tests
// exercise the same semantics as the SQL implementation.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role, _, _ int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.UserProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.UserProfile)}
}

func (r *fakeProfileRepo) Create(_ context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.UserID == userID {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[string]*domain.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*domain.Document)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) UpdateReview(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) ListByProfile(_ context.Context, profileID string) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, doc := range r.docs {
		if doc.ProfileID == profileID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) ListPending(_ context.Context, _, _ int) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Document
	for _, doc := range r.docs {
		if doc.Status == domain.DocumentStatusPending {
			out = append(out, *doc)
		}
	}
	return out, nil
}

type fakeCatalogRepo struct {
	mu         sync.Mutex
	categories map[string]*domain.ServiceCategory
	services   map[string]*domain.Service
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		categories: make(map[string]*domain.ServiceCategory),
		services:   make(map[string]*domain.Service),
	}
}

func (r *fakeCatalogRepo) CreateCategory(_ context.Context, category *domain.ServiceCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) UpdateCategory(_ context.Context, category *domain.ServiceCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) GetCategoryByID(_ context.Context, id string) (*domain.ServiceCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (r *fakeCatalogRepo) ListCategories(_ context.Context, activeOnly bool) ([]domain.ServiceCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ServiceCategory
	for _, category := range r.categories {
		if activeOnly && !category.IsActive {
			continue
		}
		out = append(out, *category)
	}
	return out, nil
}

func (r *fakeCatalogRepo) CreateService(_ context.Context, svc *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	copied := *svc
	r.services[svc.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) UpdateService(_ context.Context, svc *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[svc.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *svc
	r.services[svc.ID] = &copied
	return nil
}

func (r *fakeCatalogRepo) GetServiceByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *svc
	return &copied, nil
}

func (r *fakeCatalogRepo) ListServices(_ context.Context, filter repository.ServiceFilter) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Service
	for _, svc := range r.services {
		if filter.ActiveOnly && !svc.IsActive {
			continue
		}
		if filter.FeaturedOnly && !svc.IsFeatured {
			continue
		}
		if filter.Visibility != nil && svc.Visibility != *filter.Visibility {
			continue
		}
		if filter.CategoryID != nil && svc.CategoryID != *filter.CategoryID {
			continue
		}
		out = append(out, *svc)
	}
	return out, nil
}

type fakeWindowRepo struct {
	mu         sync.Mutex
	windows    map[string]*domain.AvailabilityWindow
	releaseErr error
}

func newFakeWindowRepo() *fakeWindowRepo {
	return &fakeWindowRepo{windows: make(map[string]*domain.AvailabilityWindow)}
}

func (r *fakeWindowRepo) Create(_ context.Context, window *domain.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if window.ID == "" {
		window.ID = uuid.NewString()
	}
	copied := *window
	r.windows[window.ID] = &copied
	return nil
}

func (r *fakeWindowRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	window, ok := r.windows[id]
	if !ok || window.BookedCount != 0 {
		return pgx.ErrNoRows
	}
	delete(r.windows, id)
	return nil
}

func (r *fakeWindowRepo) GetByID(_ context.Context, id string) (*domain.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	window, ok := r.windows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *window
	return &copied, nil
}

func (r *fakeWindowRepo) ListByService(_ context.Context, serviceID string) ([]domain.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AvailabilityWindow
	for _, window := range r.windows {
		if window.ServiceID == serviceID {
			out = append(out, *window)
		}
	}
	return out, nil
}

func (r *fakeWindowRepo) FindContaining(_ context.Context, serviceID string, t time.Time) (*domain.AvailabilityWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, window := range r.windows {
		if window.ServiceID == serviceID && window.Contains(t) {
			copied := *window
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// Release mirrors the SQL repository: decrementing an unknown window or one
// with no booked slots is a silent no-op, not an error.
func (r *fakeWindowRepo) Release(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.releaseErr != nil {
		return r.releaseErr
	}
	window, ok := r.windows[id]
	if !ok || window.BookedCount <= 0 {
		return nil
	}
	window.BookedCount--
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	windows  *fakeWindowRepo
	bookings map[string]*domain.Booking
}

func newFakeBookingRepo(windows *fakeWindowRepo) *fakeBookingRepo {
	return &fakeBookingRepo{windows: windows, bookings: make(map[string]*domain.Booking)}
}

// CreateReserved mirrors the transactional compare-and-set: reserve a slot
// only while booked_count < capacity, then insert.
func (r *fakeBookingRepo) CreateReserved(_ context.Context, booking *domain.Booking) error {
	r.windows.mu.Lock()
	window, ok := r.windows.windows[booking.WindowID]
	if !ok {
		r.windows.mu.Unlock()
		return pgx.ErrNoRows
	}
	if window.BookedCount >= window.Capacity {
		r.windows.mu.Unlock()
		return repository.ErrWindowFull
	}
	window.BookedCount++
	r.windows.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now()
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) GetByReferenceKey(_ context.Context, key string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.ReferenceKey == key {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeBookingRepo) ListWithFilter(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, booking := range r.bookings {
		if filter.UserID != nil && booking.UserID != *filter.UserID {
			continue
		}
		if filter.ServiceID != nil && booking.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.AssignedStaffID != nil {
			if booking.AssignedStaffID == nil || *booking.AssignedStaffID != *filter.AssignedStaffID {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, booking.Status) {
			continue
		}
		out = append(out, *booking)
	}
	return out, nil
}

func containsStatus(statuses []domain.BookingStatus, status domain.BookingStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type fakeUpdateRepo struct {
	mu      sync.Mutex
	updates []domain.BookingUpdate
}

func newFakeUpdateRepo() *fakeUpdateRepo {
	return &fakeUpdateRepo{}
}

func (r *fakeUpdateRepo) Create(_ context.Context, update *domain.BookingUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	update.CreatedAt = time.Now()
	r.updates = append(r.updates, *update)
	return nil
}

func (r *fakeUpdateRepo) ListByBooking(_ context.Context, bookingID string) ([]domain.BookingUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BookingUpdate
	for _, update := range r.updates {
		if update.BookingID == bookingID {
			out = append(out, update)
		}
	}
	return out, nil
}

type fakeHistoryRepo struct {
	mu        sync.Mutex
	entries   []domain.BookingHistory
	createErr error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.BookingHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByBooking(_ context.Context, bookingID string, _, _ int) ([]domain.BookingHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.BookingHistory
	for _, entry := range r.entries {
		if entry.BookingID == bookingID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return raw, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets++
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}
