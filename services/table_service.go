package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tableside/models"
)

// TableService is the only writer of a table's session token. Rotating the
// token and revoking bound guest credentials happen in one transaction.
type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

type CreateTableParams struct {
	Number   uint   `json:"number" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
	Status   string `json:"status"`
}

type UpdateTableParams struct {
	Status      string `json:"status"`
	Capacity    int    `json:"capacity"`
	Transport   string `json:"transport"`
	ChangeToken bool   `json:"change_token"`
}

// CreateTable inserts a table with a fresh session token. A number collision
// fails with a field-scoped *DuplicateKeyError so callers can render a
// precise validation message.
func (s *TableService) CreateTable(params CreateTableParams) (*models.Table, error) {
	table := models.Table{
		Number:   params.Number,
		Capacity: params.Capacity,
		Status:   models.TableStatusAvailable,
		Token:    newSessionToken(),
	}
	if params.Status != "" {
		table.Status = params.Status
	}

	if err := s.DB.Create(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &DuplicateKeyError{Field: "number"}
		}
		return nil, err
	}
	return &table, nil
}

// UpdateTable updates status/capacity/transport. When ChangeToken is set it
// additionally rotates the session token and, in the same transaction, clears
// the refresh credential of every guest bound to the table. Connected guests
// keep their live channel until their next credential refresh, which then
// fails against the new token.
func (s *TableService) UpdateTable(number uint, params UpdateTableParams) (*models.Table, error) {
	var table models.Table

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&table, "number = ?", number).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"status":     params.Status,
			"capacity":   params.Capacity,
			"transport":  params.Transport,
			"updated_at": time.Now(),
		}
		if params.ChangeToken {
			updates["token"] = newSessionToken()
		}

		if err := tx.Model(&table).Updates(updates).Error; err != nil {
			return err
		}

		if params.ChangeToken {
			if err := tx.Model(&models.Guest{}).
				Where("table_number = ?", number).
				Updates(map[string]interface{}{
					"refresh_token":            nil,
					"refresh_token_expires_at": nil,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *TableService) GetTable(number uint) (*models.Table, error) {
	var table models.Table
	if err := s.DB.First(&table, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (s *TableService) ListTables() ([]models.Table, error) {
	var tables []models.Table
	if err := s.DB.Order("created_at desc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *TableService) DeleteTable(number uint) error {
	result := s.DB.Delete(&models.Table{}, "number = ?", number)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTableNotFound
	}
	return nil
}

func newSessionToken() string {
	return uuid.NewString()
}
