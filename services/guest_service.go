package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tableside/models"
	"tableside/utils"
)

var (
	// ErrInvalidTableToken means the presented table session token does not
	// match the table's current one (e.g. after a rotation).
	ErrInvalidTableToken = errors.New("invalid table token")

	// ErrCredentialRevoked means the guest's refresh credential no longer
	// matches the stored one, or was cleared by a token rotation.
	ErrCredentialRevoked = errors.New("refresh credential revoked")
)

// GuestService manages table-bound guest sessions: login against the table's
// session token, credential refresh, and logout.
type GuestService struct {
	DB *gorm.DB
}

func NewGuestService(db *gorm.DB) *GuestService {
	return &GuestService{DB: db}
}

type GuestSession struct {
	Guest        models.Guest
	AccessToken  string
	RefreshToken string
}

// Login validates the table token, creates the guest row and issues the
// access/refresh token pair. The refresh token is persisted on the guest row
// so a table-token rotation can revoke it.
func (s *GuestService) Login(name string, tableNumber uint, tableToken string) (*GuestSession, error) {
	var session GuestSession

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, "number = ?", tableNumber).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}
		if table.Token != tableToken {
			return ErrInvalidTableToken
		}

		guest := models.Guest{
			Name:        name,
			TableNumber: tableNumber,
		}
		if err := tx.Create(&guest).Error; err != nil {
			return err
		}

		accessToken, err := utils.GenerateAccessToken(guest.ID, utils.RoleGuest, &guest.TableNumber)
		if err != nil {
			return err
		}
		refreshToken, expiresAt, err := utils.GenerateRefreshToken(guest.ID, guest.TableNumber)
		if err != nil {
			return err
		}

		guest.RefreshToken = &refreshToken
		guest.RefreshTokenExpiresAt = &expiresAt
		if err := tx.Save(&guest).Error; err != nil {
			return err
		}

		session = GuestSession{
			Guest:        guest,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RefreshCredentials re-issues the token pair iff the presented refresh
// token matches the stored credential and has not expired. A rotation clears
// the stored credential, so stale guests fail here and must log in against
// the new table token.
func (s *GuestService) RefreshCredentials(refreshToken string) (*GuestSession, error) {
	claims, err := utils.ParseToken(refreshToken)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		return nil, ErrCredentialRevoked
	}

	var session GuestSession
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.First(&guest, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuestNotFound
			}
			return err
		}

		if guest.RefreshToken == nil || *guest.RefreshToken != refreshToken {
			return ErrCredentialRevoked
		}
		if guest.RefreshTokenExpiresAt == nil || guest.RefreshTokenExpiresAt.Before(time.Now()) {
			return ErrCredentialRevoked
		}

		accessToken, err := utils.GenerateAccessToken(guest.ID, utils.RoleGuest, &guest.TableNumber)
		if err != nil {
			return err
		}
		newRefresh, expiresAt, err := utils.GenerateRefreshToken(guest.ID, guest.TableNumber)
		if err != nil {
			return err
		}

		guest.RefreshToken = &newRefresh
		guest.RefreshTokenExpiresAt = &expiresAt
		if err := tx.Save(&guest).Error; err != nil {
			return err
		}

		session = GuestSession{
			Guest:        guest,
			AccessToken:  accessToken,
			RefreshToken: newRefresh,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout clears the stored refresh credential.
func (s *GuestService) Logout(guestID uint) error {
	return s.DB.Model(&models.Guest{}).Where("id = ?", guestID).
		Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		}).Error
}

// GetGuest loads one guest session row.
func (s *GuestService) GetGuest(guestID uint) (*models.Guest, error) {
	var guest models.Guest
	if err := s.DB.First(&guest, guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, err
	}
	return &guest, nil
}
