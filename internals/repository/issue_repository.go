package repository

import (
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/models"
)

type BookIssueRepository interface {
	Create(issue *models.BookIssue) error
	Delete(id uint) error
	FindById(id uint) (*models.BookIssue, error)
	FindAll() ([]models.BookIssue, error)
	MarkReturned(id uint, returnDate models.Date) (bool, error)
	SetRating(id uint, rating int) error
}

type issuerepo struct {
	db *gorm.DB
}

func NewBookIssueRepository(db *gorm.DB) BookIssueRepository {
	return &issuerepo{db: db}
}

// Create stamps the issue date with today when the caller did not set one.
func (r *issuerepo) Create(issue *models.BookIssue) error {
	if issue.IssueDate.IsZero() {
		issue.IssueDate = models.Today()
	}
	issue.IsReturned = false
	issue.ReturnDate = nil
	return r.db.Create(issue).Error
}

func (r *issuerepo) Delete(id uint) error {
	result := r.db.Delete(&models.BookIssue{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *issuerepo) FindById(id uint) (*models.BookIssue, error) {
	var issue models.BookIssue
	err := r.db.Preload("Book").Preload("User").First(&issue, id).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issuerepo) FindAll() ([]models.BookIssue, error) {
	var issues []models.BookIssue
	err := r.db.Preload("Book").Preload("User").Order("issue_date DESC").Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// MarkReturned flips the issue to returned with a single conditional
// update. The WHERE clause only matches while is_returned is still false,
// so under concurrent duplicate requests exactly one caller sees
// RowsAffected == 1 and owns the follow-up aggregate update.
func (r *issuerepo) MarkReturned(id uint, returnDate models.Date) (bool, error) {
	result := r.db.Model(&models.BookIssue{}).
		Where("id = ? AND is_returned = ?", id, false).
		Updates(map[string]interface{}{
			"return_date": returnDate,
			"is_returned": true,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *issuerepo) SetRating(id uint, rating int) error {
	return r.db.Model(&models.BookIssue{}).
		Where("id = ?", id).
		Update("rating", rating).Error
}
