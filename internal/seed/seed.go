package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/factura/internal/auth/domain"
	"github.com/smallbiznis/factura/internal/auth/password"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@factura.local"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Factura Admin"
)

// EnsureDefaultUser seeds the default admin account for first-run setups.
// The password is the well-known bootstrap value and should be rotated
// immediately on real deployments.
func EnsureDefaultUser(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id node is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user authdomain.User
		err := tx.Where("email = ?", defaultAdminEmail).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user = authdomain.User{
			ID:           node.Generate(),
			Email:        defaultAdminEmail,
			DisplayName:  defaultAdminDisplay,
			PasswordHash: &hashed,
			IsDefault:    true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Create(&user).Error
	})
}
