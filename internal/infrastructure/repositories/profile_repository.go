package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/you/portalsvc/domain"
)

// ProfileRepositoryImpl implements domain.ProfileRepository using GORM
type ProfileRepositoryImpl struct {
	db *gorm.DB
}

// DBProfile represents the database model for UserProfile (with GORM tags)
type DBProfile struct {
	ID           string         `gorm:"primaryKey;size:64"`
	Phone        string         `gorm:"index;size:32"`
	ProfileType  string         `gorm:"index;size:32"`
	PatientName  string         `gorm:"size:255"`
	LastModified time.Time      `gorm:"column:last_modified_tm"`
	CreatedAt    time.Time      `gorm:"index"`
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBProfile) TableName() string {
	return "patient_profiles"
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) domain.ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

// Create implements domain.ProfileRepository. When the phone already
// belongs to another record a disambiguating suffix is appended to the
// stored phone so the original record is undisturbed. Lookups tolerate
// suffixed phones via FindByPhonePrefix.
func (r *ProfileRepositoryImpl) Create(ctx context.Context, profile *domain.UserProfile) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&DBProfile{}).
		Where("phone LIKE ?", profile.Phone+"%").
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		profile.Phone = fmt.Sprintf("%s_%d", profile.Phone, count)
	}

	dbProfile := r.domainToDB(profile)
	dbProfile.LastModified = time.Now()
	if err := r.db.WithContext(ctx).Create(dbProfile).Error; err != nil {
		return err
	}
	profile.LastModified = dbProfile.LastModified
	return nil
}

// FindByID implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	var dbProfile DBProfile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbProfile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbProfile), nil
}

// FindByPhone implements domain.ProfileRepository with an exact match
func (r *ProfileRepositoryImpl) FindByPhone(ctx context.Context, phone string) (*domain.UserProfile, error) {
	var dbProfile DBProfile
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&dbProfile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbProfile), nil
}

// FindByPhonePrefix implements domain.ProfileRepository. It matches
// records whose stored phone starts with the given phone, which covers
// historical records that carry a collision suffix. The oldest match wins.
func (r *ProfileRepositoryImpl) FindByPhonePrefix(ctx context.Context, phone string) (*domain.UserProfile, error) {
	var dbProfile DBProfile
	err := r.db.WithContext(ctx).
		Where("phone LIKE ?", phone+"%").
		Order("created_at asc").
		First(&dbProfile).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbProfile), nil
}

// Update implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) Update(ctx context.Context, profile *domain.UserProfile) error {
	dbProfile := r.domainToDB(profile)
	dbProfile.LastModified = time.Now()
	if err := r.db.WithContext(ctx).Save(dbProfile).Error; err != nil {
		return err
	}
	profile.LastModified = dbProfile.LastModified
	return nil
}

// List implements domain.ProfileRepository
func (r *ProfileRepositoryImpl) List(ctx context.Context) ([]domain.UserProfile, error) {
	var dbProfiles []DBProfile
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&dbProfiles).Error; err != nil {
		return nil, err
	}

	profiles := make([]domain.UserProfile, 0, len(dbProfiles))
	for i := range dbProfiles {
		profiles = append(profiles, *r.dbToDomain(&dbProfiles[i]))
	}
	return profiles, nil
}

func (r *ProfileRepositoryImpl) domainToDB(profile *domain.UserProfile) *DBProfile {
	return &DBProfile{
		ID:           profile.ID,
		Phone:        profile.Phone,
		ProfileType:  profile.ProfileType,
		PatientName:  profile.PatientName,
		LastModified: profile.LastModified,
	}
}

func (r *ProfileRepositoryImpl) dbToDomain(dbProfile *DBProfile) *domain.UserProfile {
	return &domain.UserProfile{
		ID:           dbProfile.ID,
		Phone:        dbProfile.Phone,
		ProfileType:  dbProfile.ProfileType,
		PatientName:  dbProfile.PatientName,
		LastModified: dbProfile.LastModified,
		CreatedAt:    dbProfile.CreatedAt,
		UpdatedAt:    dbProfile.UpdatedAt,
	}
}
