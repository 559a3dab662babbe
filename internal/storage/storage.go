// Package storage is the complaint record store: gorm/postgres for records
// and redis for the reputation cache, rate-limit counters and notifications.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"centraldoconsumidor/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// NotificationsChannel is the redis pub/sub channel complaint events go to.
const NotificationsChannel = "complaint_events"

const reputationCachePrefix = "reputation:"

type Storage interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	SaveCompany(ctx context.Context, company *models.Company) error
	GetCompanyByID(ctx context.Context, companyID string) (*models.Company, error)
	ListCompanies(ctx context.Context, category models.Category) ([]models.Company, error)
	ListCompaniesByCategorySince(ctx context.Context, category models.Category, since time.Time) ([]models.Company, error)

	CreateComplaint(ctx context.Context, complaint *models.Complaint) error
	GetComplaintByID(ctx context.Context, complaintID string) (*models.Complaint, error)
	UpdateComplaint(ctx context.Context, complaint *models.Complaint) error
	ListComplaintsByCompany(ctx context.Context, companyID string) ([]models.Complaint, error)
	ListComplaintsByUser(ctx context.Context, userID string, filter ComplaintFilter) ([]models.Complaint, error)
	AppendUpdate(ctx context.Context, update *models.Update) error

	UpsertReputation(ctx context.Context, rep *models.CompanyReputation) error
	SaveReputationHistory(ctx context.Context, entry *models.ReputationHistory) error
	GetReputationHistory(ctx context.Context, companyID string, since time.Time) ([]models.ReputationHistory, error)

	CacheReputation(ctx context.Context, rep *models.CompanyReputation, ttl time.Duration) error
	CachedReputation(ctx context.Context, companyID string) (*models.CompanyReputation, error)

	PublishNotification(ctx context.Context, n models.Notification) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. rdb may be nil; cache and pub/sub calls
// then become no-ops.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// notFound maps gorm's missing-record error to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Save(user).Error
}

func (s *Service) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Service) SaveCompany(ctx context.Context, company *models.Company) error {
	return s.DB.WithContext(ctx).Save(company).Error
}

func (s *Service) GetCompanyByID(ctx context.Context, companyID string) (*models.Company, error) {
	var company models.Company
	if err := s.DB.WithContext(ctx).Where("id = ?", companyID).First(&company).Error; err != nil {
		return nil, notFound(err)
	}
	return &company, nil
}

// ListCompanies returns every company, or only those of category when it is
// not empty, in creation order.
func (s *Service) ListCompanies(ctx context.Context, category models.Category) ([]models.Company, error) {
	var companies []models.Company
	q := s.DB.WithContext(ctx).Order("created_at asc, id asc")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// ListCompaniesByCategorySince returns the companies of a category with only
// their complaints created at or after since. The company order is stable
// across calls.
func (s *Service) ListCompaniesByCategorySince(ctx context.Context, category models.Category, since time.Time) ([]models.Company, error) {
	var companies []models.Company
	err := s.DB.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at asc, id asc").
		Preload("Complaints", "created_at >= ?", since).
		Find(&companies).Error
	if err != nil {
		return nil, fmt.Errorf("list companies in %s: %w", category, err)
	}
	return companies, nil
}

// CreateComplaint inserts the complaint together with its initial updates.
func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	return s.DB.WithContext(ctx).Create(complaint).Error
}

func (s *Service) GetComplaintByID(ctx context.Context, complaintID string) (*models.Complaint, error) {
	var complaint models.Complaint
	err := s.DB.WithContext(ctx).
		Preload("Updates", orderByID).
		Where("id = ?", complaintID).
		First(&complaint).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &complaint, nil
}

// UpdateComplaint persists the mutable fields of a complaint. Updates are
// appended separately through AppendUpdate.
func (s *Service) UpdateComplaint(ctx context.Context, complaint *models.Complaint) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Complaint{ID: complaint.ID}).
		Select("status", "channels", "tracking", "resolved_at", "updated_at").
		Updates(complaint)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListComplaintsByCompany returns the full complaint history of a company,
// each with its updates in insertion order.
func (s *Service) ListComplaintsByCompany(ctx context.Context, companyID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.WithContext(ctx).
		Preload("Updates", orderByID).
		Where("company_id = ?", companyID).
		Order("created_at asc, id asc").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("list complaints of %s: %w", companyID, err)
	}
	return complaints, nil
}

// ComplaintFilter narrows a complaint listing. Zero fields match everything.
type ComplaintFilter struct {
	Status   models.Status
	Category models.Category
}

// ListComplaintsByUser returns a user's complaints, newest first.
func (s *Service) ListComplaintsByUser(ctx context.Context, userID string, filter ComplaintFilter) ([]models.Complaint, error) {
	var complaints []models.Complaint
	q := s.DB.WithContext(ctx).
		Preload("Updates", orderByID).
		Where("user_id = ?", userID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if err := q.Order("created_at desc, id asc").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("list complaints of user %s: %w", userID, err)
	}
	return complaints, nil
}

func (s *Service) AppendUpdate(ctx context.Context, update *models.Update) error {
	return s.DB.WithContext(ctx).Create(update).Error
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// UpsertReputation stores the snapshot as the company's last known score.
func (s *Service) UpsertReputation(ctx context.Context, rep *models.CompanyReputation) error {
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "company_id"}},
			UpdateAll: true,
		}).
		Create(rep).Error
}

func (s *Service) SaveReputationHistory(ctx context.Context, entry *models.ReputationHistory) error {
	return s.DB.WithContext(ctx).Create(entry).Error
}

// GetReputationHistory returns samples taken at or after since, oldest first.
func (s *Service) GetReputationHistory(ctx context.Context, companyID string, since time.Time) ([]models.ReputationHistory, error) {
	var history []models.ReputationHistory
	err := s.DB.WithContext(ctx).
		Where("company_id = ? AND date >= ?", companyID, since).
		Order("date asc, id asc").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("reputation history of %s: %w", companyID, err)
	}
	return history, nil
}

func reputationKey(companyID string) string {
	return reputationCachePrefix + companyID
}

// CacheReputation writes the snapshot to redis with the given TTL.
func (s *Service) CacheReputation(ctx context.Context, rep *models.CompanyReputation, ttl time.Duration) error {
	if s.Redis == nil {
		return nil
	}
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, reputationKey(rep.CompanyID), data, ttl).Err()
}

// CachedReputation returns the cached snapshot, or nil on a cache miss.
func (s *Service) CachedReputation(ctx context.Context, companyID string) (*models.CompanyReputation, error) {
	if s.Redis == nil {
		return nil, nil
	}
	data, err := s.Redis.Get(ctx, reputationKey(companyID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rep models.CompanyReputation
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("decode cached reputation %s: %w", companyID, err)
	}
	return &rep, nil
}

// PublishNotification publishes a complaint event on NotificationsChannel.
func (s *Service) PublishNotification(ctx context.Context, n models.Notification) error {
	if s.Redis == nil {
		return nil
	}
	msgBytes, err := encodeNotification(n)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, NotificationsChannel, msgBytes).Err()
}

// encodeNotification stamps n with a fresh event ID unless it carries one.
func encodeNotification(n models.Notification) ([]byte, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return json.Marshal(n)
}

// IncrementWindow bumps a fixed-window counter and returns its new value.
// The window starts with the first hit.
func (s *Service) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	if s.Redis == nil {
		return 0, errors.New("redis is not configured")
	}
	pipe := s.Redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
