package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/models"
)

type AuthorRepository interface {
	Create(author *models.Author) error
	Update(author *models.Author) error
	Delete(id uint) error
	FindById(id uint) (*models.Author, error)
	FindAll() ([]models.Author, error)
	GetOrCreate(author models.Author) (*models.Author, error)
}

type authorrepo struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorrepo{db: db}
}

func (r *authorrepo) Create(author *models.Author) error {
	return r.db.Create(author).Error
}

func (r *authorrepo) Update(author *models.Author) error {
	return r.db.Save(author).Error
}

func (r *authorrepo) Delete(id uint) error {
	result := r.db.Delete(&models.Author{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *authorrepo) FindById(id uint) (*models.Author, error) {
	var author models.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorrepo) FindAll() ([]models.Author, error) {
	var authors []models.Author
	if err := r.db.Order("name ASC").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

// GetOrCreate looks up an author whose fields all match exactly and reuses
// it, creating a new row only when no such author exists. Run it inside the
// transaction of the surrounding book write so concurrent creates cannot
// slip a duplicate in between the lookup and the insert.
func (r *authorrepo) GetOrCreate(author models.Author) (*models.Author, error) {
	query := r.db.Where("name = ?", author.Name).Where("biography = ?", author.Biography)
	if author.BirthDate != nil {
		query = query.Where("birth_date = ?", *author.BirthDate)
	} else {
		query = query.Where("birth_date IS NULL")
	}

	var existing models.Author
	err := query.First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.Create(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}
