package initializers

import "github.com/svtitarenk/api-library/internals/models"

// SyncDatabase synchronizes the database tables with the models.
func SyncDatabase() error {
	return DB.AutoMigrate(
		&models.UserProfile{},
		&models.Author{},
		&models.Book{},
		&models.BookIssue{},
	)
}
