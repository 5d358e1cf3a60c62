package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/initializers"
	"github.com/svtitarenk/api-library/internals/models"
	"github.com/svtitarenk/api-library/internals/repository"
	"github.com/svtitarenk/api-library/internals/service"
)

type BookResponse struct {
	Id            uint            `json:"id"`
	Title         string          `json:"title"`
	Genre         string          `json:"genre"`
	PublishedDate *models.Date    `json:"published_date"`
	Description   string          `json:"description"`
	Author        *AuthorResponse `json:"author"`
	User          string          `json:"user"`
	AverageRating float64         `json:"average_rating"`
}

// GetAllBooks lists books, optionally filtered by title / author name /
// genre (case-insensitive contains), by availability (is_returned) and
// ordered by title, published_date or author name.
func GetAllBooks(c *gin.Context) {
	filter := repository.BookFilter{
		Title:      c.Query("title"),
		AuthorName: c.Query("author__name"),
		Genre:      c.Query("genre"),
		Ordering:   c.Query("ordering"),
	}
	if raw := c.Query("is_returned"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "is_returned must be true or false"})
			return
		}
		filter.IsReturned = &value
	}

	books := repository.NewBookRepository(initializers.DB)
	found, err := books.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]*BookResponse, 0, len(found))
	for i := range found {
		resp, err := convertBookToResponse(books, &found[i])
		if err != nil {
			respondError(c, err)
			return
		}
		response = append(response, resp)
	}
	c.JSON(http.StatusOK, response)
}

func GetBookById(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	books := repository.NewBookRepository(initializers.DB)
	book, err := books.FindById(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := convertBookToResponse(books, book)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// CreateBook accepts a book payload with an embedded author. The author
// is reused when one matches field for field, created otherwise, and the
// book is stamped with the authenticated caller as its registering user.
func CreateBook(c *gin.Context) {
	var input service.CreateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := service.NewCatalogService(initializers.DB).CreateBook(input, c.GetString("email"))
	if err != nil {
		// the caller is authenticated, so a missing profile row is a bad
		// request rather than a missing resource
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown user for authenticated caller"})
			return
		}
		respondError(c, err)
		return
	}
	response, err := convertBookToResponse(repository.NewBookRepository(initializers.DB), book)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func UpdateBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input service.UpdateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	book, err := service.NewCatalogService(initializers.DB).UpdateBook(id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	response, err := convertBookToResponse(repository.NewBookRepository(initializers.DB), book)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// DeleteBook removes the book together with its ledger entries.
func DeleteBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := repository.NewBookRepository(initializers.DB).Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func convertBookToResponse(books repository.BookRepository, book *models.Book) (*BookResponse, error) {
	rating, err := books.AverageRating(book.Id)
	if err != nil {
		return nil, err
	}
	return &BookResponse{
		Id:            book.Id,
		Title:         book.Title,
		Genre:         book.Genre,
		PublishedDate: book.PublishedDate,
		Description:   book.Description,
		Author:        convertAuthorToResponse(&book.Author),
		User:          book.User.Email,
		AverageRating: rating,
	}, nil
}
