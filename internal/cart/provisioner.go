package cart

import (
	"github.com/google/uuid"

	"github.com/SantaTabla/Shop-Backend/internal/db"
)

// Provisioner creates carts for the auth core during registration and
// federated first-login. It satisfies auth.CartProvisioner.
type Provisioner struct{}

func (Provisioner) CreateCart(email string) (string, error) {
	c := Cart{
		ID:        uuid.New().String(),
		UserEmail: email,
	}
	if err := db.DB.Create(&c).Error; err != nil {
		return "", err
	}
	return c.ID, nil
}

// DeleteCart removes a cart and its items (account deletion, cleanup sweep).
func DeleteCart(cartID string) error {
	if cartID == "" {
		return nil
	}
	if err := db.DB.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error; err != nil {
		return err
	}
	return db.DB.Where("id = ?", cartID).Delete(&Cart{}).Error
}
