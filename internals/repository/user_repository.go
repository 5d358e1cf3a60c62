package repository

import (
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/models"
)

type UserRepository interface {
	Create(user *models.UserProfile) error
	FindById(id uint) (*models.UserProfile, error)
	FindByEmail(email string) (*models.UserProfile, error)
	AddLendingTotals(id uint, booksTaken uint, daysHeld uint) error
}

type userrepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userrepo{db: db}
}

func (r *userrepo) Create(user *models.UserProfile) error {
	return r.db.Create(user).Error
}

func (r *userrepo) FindById(id uint) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userrepo) FindByEmail(email string) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AddLendingTotals bumps the running lending counters in place. The
// increments happen in SQL so two concurrent returns never lose an update.
func (r *userrepo) AddLendingTotals(id uint, booksTaken uint, daysHeld uint) error {
	return r.db.Model(&models.UserProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_books_taken":     gorm.Expr("total_books_taken + ?", booksTaken),
			"total_days_held_books": gorm.Expr("total_days_held_books + ?", daysHeld),
		}).Error
}
