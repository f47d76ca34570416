package repository

import (
	"context"

	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/models"
)

type ServiceRepository struct {
	db DBTX
}

func NewServiceRepository(db DBTX) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(ctx context.Context, name string, description *string) (*models.TrainerService, error) {
	query := `
		INSERT INTO trainer_services (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at
	`
	var service models.TrainerService
	err := r.db.QueryRow(ctx, query, name, description).Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, serviceID int64) (*models.TrainerService, error) {
	query := `
		SELECT id, name, description, created_at
		FROM trainer_services
		WHERE id = $1
	`
	var service models.TrainerService
	err := r.db.QueryRow(ctx, query, serviceID).Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]models.TrainerService, error) {
	query := `
		SELECT id, name, description, created_at
		FROM trainer_services
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]models.TrainerService, 0)
	for rows.Next() {
		var service models.TrainerService
		if err := rows.Scan(&service.ID, &service.Name, &service.Description, &service.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return services, nil
}
