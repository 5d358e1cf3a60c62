package repository

import (
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/models"
)

// BookFilter carries the optional list-endpoint query parameters.
// Text filters are case-insensitive "contains" matches and are ANDed.
// IsReturned filters on availability: true keeps only books with no
// outstanding issue, false only books with at least one.
type BookFilter struct {
	Title      string
	AuthorName string
	Genre      string
	IsReturned *bool
	Ordering   string
}

// ordering parameter -> ORDER BY clause. Values outside this table fall
// back to the default, same as unknown ordering fields on the list API.
var bookOrderings = map[string]string{
	"title":           "books.title ASC",
	"-title":          "books.title DESC",
	"published_date":  "books.published_date ASC",
	"-published_date": "books.published_date DESC",
	"author__name":    "authors.name ASC",
	"-author__name":   "authors.name DESC",
}

const defaultBookOrdering = "books.title ASC"

type BookRepository interface {
	Create(book *models.Book) error
	Update(book *models.Book) error
	Delete(id uint) error
	FindById(id uint) (*models.Book, error)
	List(filter BookFilter) ([]models.Book, error)
	AverageRating(bookId uint) (float64, error)
}

type bookrepo struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookrepo{db: db}
}

func (r *bookrepo) Create(book *models.Book) error {
	return r.db.Create(book).Error
}

func (r *bookrepo) Update(book *models.Book) error {
	return r.db.Save(book).Error
}

func (r *bookrepo) Delete(id uint) error {
	result := r.db.Delete(&models.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookrepo) FindById(id uint) (*models.Book, error) {
	var book models.Book
	err := r.db.Preload("Author").Preload("User").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookrepo) List(filter BookFilter) ([]models.Book, error) {
	query := r.db.Model(&models.Book{}).
		Joins("JOIN authors ON authors.id = books.author_id").
		Preload("Author").
		Preload("User")

	if filter.Title != "" {
		query = query.Where("LOWER(books.title) LIKE ?", contains(filter.Title))
	}
	if filter.AuthorName != "" {
		query = query.Where("LOWER(authors.name) LIKE ?", contains(filter.AuthorName))
	}
	if filter.Genre != "" {
		query = query.Where("LOWER(books.genre) LIKE ?", contains(filter.Genre))
	}

	// Availability is an EXISTS check on the ledger, so each book shows up
	// once no matter how many issues it has. A book with no issues at all
	// counts as available.
	if filter.IsReturned != nil {
		if *filter.IsReturned {
			query = query.Where(
				"NOT EXISTS (SELECT 1 FROM book_issues WHERE book_issues.book_id = books.id AND book_issues.is_returned = ?)",
				false,
			)
		} else {
			query = query.Where(
				"EXISTS (SELECT 1 FROM book_issues WHERE book_issues.book_id = books.id AND book_issues.is_returned = ?)",
				false,
			)
		}
	}

	ordering, ok := bookOrderings[filter.Ordering]
	if !ok {
		ordering = defaultBookOrdering
	}

	var books []models.Book
	if err := query.Order(ordering).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// AverageRating is the mean rating over returned issues of the book that
// carry a rating. No such issues means 0, not null. Rounded to 2 decimals.
func (r *bookrepo) AverageRating(bookId uint) (float64, error) {
	var avg float64
	err := r.db.Model(&models.BookIssue{}).
		Where("book_id = ? AND is_returned = ? AND rating IS NOT NULL", bookId, true).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	return math.Round(avg*100) / 100, nil
}

func contains(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
