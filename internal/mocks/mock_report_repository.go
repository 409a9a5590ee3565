package mocks

import (
	"context"

	"github.com/you/portalsvc/domain"
)

// MockReportRepository implements domain.ReportRepository interface for testing
type MockReportRepository struct {
	CreateFunc        func(ctx context.Context, report *domain.Report) error
	ListByPatientFunc func(ctx context.Context, patientID string) ([]domain.Report, error)
}

// NewMockReportRepository creates a new MockReportRepository with default behaviors
func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{}
}

// Create records report metadata
func (m *MockReportRepository) Create(ctx context.Context, report *domain.Report) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, report)
	}
	// Default behavior: success
	return nil
}

// ListByPatient returns report metadata for a patient
func (m *MockReportRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.Report, error) {
	if m.ListByPatientFunc != nil {
		return m.ListByPatientFunc(ctx, patientID)
	}
	// Default behavior: empty
	return nil, nil
}

// Compile-time interface compliance verification
var _ domain.ReportRepository = (*MockReportRepository)(nil)
