package models

import "time"

// defining the schema
type UserProfile struct {
	Id        uint   `gorm:"primaryKey;column:id"`
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
	Email     string `gorm:"not null;unique;column:email"`
	Password  string `gorm:"not null;column:password"`
	Phone     string `gorm:"column:phone"`

	// lending totals, only ever incremented by the return transition
	TotalBooksTaken    uint `gorm:"column:total_books_taken;not null;default:0"`
	TotalDaysHeldBooks uint `gorm:"column:total_days_held_books;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}
