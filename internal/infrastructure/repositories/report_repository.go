package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/you/portalsvc/domain"
)

// ReportRepositoryImpl implements domain.ReportRepository using GORM.
// Only metadata is stored; file contents live in an external object store.
type ReportRepositoryImpl struct {
	db *gorm.DB
}

// DBReport represents the database model for report metadata
type DBReport struct {
	ID         uint      `gorm:"primaryKey"`
	PatientID  string    `gorm:"index;size:64"`
	FileName   string    `gorm:"size:255"`
	ObjectKey  string    `gorm:"size:512"`
	UploadedBy string    `gorm:"size:64"`
	CreatedAt  time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBReport) TableName() string {
	return "patient_reports"
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domain.ReportRepository {
	return &ReportRepositoryImpl{db: db}
}

// Create implements domain.ReportRepository
func (r *ReportRepositoryImpl) Create(ctx context.Context, report *domain.Report) error {
	dbReport := &DBReport{
		PatientID:  report.PatientID,
		FileName:   report.FileName,
		ObjectKey:  report.ObjectKey,
		UploadedBy: report.UploadedBy,
	}
	if err := r.db.WithContext(ctx).Create(dbReport).Error; err != nil {
		return err
	}
	report.ID = dbReport.ID
	report.CreatedAt = dbReport.CreatedAt
	return nil
}

// ListByPatient implements domain.ReportRepository
func (r *ReportRepositoryImpl) ListByPatient(ctx context.Context, patientID string) ([]domain.Report, error) {
	var dbReports []DBReport
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&dbReports).Error
	if err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(dbReports))
	for _, dbr := range dbReports {
		reports = append(reports, domain.Report{
			ID:         dbr.ID,
			PatientID:  dbr.PatientID,
			FileName:   dbr.FileName,
			ObjectKey:  dbr.ObjectKey,
			UploadedBy: dbr.UploadedBy,
			CreatedAt:  dbr.CreatedAt,
		})
	}
	return reports, nil
}
