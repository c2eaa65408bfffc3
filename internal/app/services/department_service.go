package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/app/repositories"
)

// DepartmentService handles operations related to departments
type DepartmentService struct {
	departmentRepo *repositories.DepartmentRepository
	logger         zerolog.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departmentRepo *repositories.DepartmentRepository, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

// CreateDepartment creates a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	department := &models.Department{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}

	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("departmentId", department.ID).Str("code", department.Code).Msg("Department created")
	return department, nil
}

// GetDepartment retrieves a department by ID
func (s *DepartmentService) GetDepartment(ctx context.Context, id int64) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

// GetAllDepartments retrieves all departments
func (s *DepartmentService) GetAllDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// UpdateDepartment updates an existing department
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id int64, req *dto.UpdateDepartmentRequest) (*models.Department, error) {
	department, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	department.Name = req.Name
	department.Code = req.Code
	department.Description = req.Description

	if err := s.departmentRepo.Update(ctx, department); err != nil {
		return nil, err
	}

	return department, nil
}

// DeleteDepartment deletes a department by ID
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id int64) error {
	return s.departmentRepo.Delete(ctx, id)
}
