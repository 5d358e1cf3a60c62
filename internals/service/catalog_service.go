package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/models"
	"github.com/svtitarenk/api-library/internals/repository"
)

// AuthorInput is the author block embedded in book payloads. A matching
// author is reused, otherwise one is created as a side effect of the book
// write.
type AuthorInput struct {
	Name      string       `json:"name" binding:"required"`
	BirthDate *models.Date `json:"birth_date"`
	Biography string       `json:"biography"`
}

type CreateBookInput struct {
	Title         string       `json:"title" binding:"required"`
	Genre         string       `json:"genre" binding:"required"`
	PublishedDate *models.Date `json:"published_date"`
	Description   string       `json:"description"`
	Author        AuthorInput  `json:"author" binding:"required"`
}

// UpdateBookInput lists the updatable book fields explicitly. Pointer
// fields distinguish "not provided" from "set to empty"; only non-nil
// fields are applied.
type UpdateBookInput struct {
	Title         *string      `json:"title"`
	Genre         *string      `json:"genre"`
	PublishedDate *models.Date `json:"published_date"`
	Description   *string      `json:"description"`
	Author        *AuthorInput `json:"author"`
}

type CatalogService interface {
	CreateBook(input CreateBookInput, callerEmail string) (*models.Book, error)
	UpdateBook(id uint, input UpdateBookInput) (*models.Book, error)
}

type catalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

// CreateBook resolves the embedded author (reuse on exact match, create
// otherwise) and creates the book stamped with the authenticated caller as
// its registering user, all in one transaction.
func (s *catalogService) CreateBook(input CreateBookInput, callerEmail string) (*models.Book, error) {
	var created models.Book
	err := s.db.Transaction(func(tx *gorm.DB) error {
		caller, err := repository.NewUserRepository(tx).FindByEmail(callerEmail)
		if err != nil {
			return errors.Wrap(err, "resolving caller")
		}

		author, err := repository.NewAuthorRepository(tx).GetOrCreate(models.Author{
			Name:      input.Author.Name,
			BirthDate: input.Author.BirthDate,
			Biography: input.Author.Biography,
		})
		if err != nil {
			return errors.Wrap(err, "resolving author")
		}

		created = models.Book{
			Title:         input.Title,
			Genre:         input.Genre,
			PublishedDate: input.PublishedDate,
			Description:   input.Description,
			AuthorId:      author.Id,
			UserId:        caller.Id,
		}
		return repository.NewBookRepository(tx).Create(&created)
	})
	if err != nil {
		return nil, err
	}
	return repository.NewBookRepository(s.db).FindById(created.Id)
}

// UpdateBook applies the provided fields. An embedded author block
// reassigns the book to a resolved-or-created author.
func (s *catalogService) UpdateBook(id uint, input UpdateBookInput) (*models.Book, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		books := repository.NewBookRepository(tx)
		book, err := books.FindById(id)
		if err != nil {
			return err
		}

		if input.Author != nil {
			author, err := repository.NewAuthorRepository(tx).GetOrCreate(models.Author{
				Name:      input.Author.Name,
				BirthDate: input.Author.BirthDate,
				Biography: input.Author.Biography,
			})
			if err != nil {
				return errors.Wrap(err, "resolving author")
			}
			book.AuthorId = author.Id
			book.Author = *author
		}
		if input.Title != nil {
			book.Title = *input.Title
		}
		if input.Genre != nil {
			book.Genre = *input.Genre
		}
		if input.PublishedDate != nil {
			book.PublishedDate = input.PublishedDate
		}
		if input.Description != nil {
			book.Description = *input.Description
		}

		return books.Update(book)
	})
	if err != nil {
		return nil, err
	}
	return repository.NewBookRepository(s.db).FindById(id)
}
