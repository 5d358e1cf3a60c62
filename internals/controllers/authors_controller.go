package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svtitarenk/api-library/initializers"
	"github.com/svtitarenk/api-library/internals/models"
	"github.com/svtitarenk/api-library/internals/repository"
)

type AuthorRequest struct {
	Name      string       `json:"name" binding:"required"`
	BirthDate *models.Date `json:"birth_date"`
	Biography string       `json:"biography"`
}

type UpdateAuthorRequest struct {
	Name      *string      `json:"name"`
	BirthDate *models.Date `json:"birth_date"`
	Biography *string      `json:"biography"`
}

type AuthorResponse struct {
	Id        uint         `json:"id"`
	Name      string       `json:"name"`
	BirthDate *models.Date `json:"birth_date"`
	Biography string       `json:"biography"`
}

func CreateAuthor(c *gin.Context) {
	var req AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	author := models.Author{
		Name:      req.Name,
		BirthDate: req.BirthDate,
		Biography: req.Biography,
	}
	if err := repository.NewAuthorRepository(initializers.DB).Create(&author); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, convertAuthorToResponse(&author))
}

func GetAllAuthors(c *gin.Context) {
	authors, err := repository.NewAuthorRepository(initializers.DB).FindAll()
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]*AuthorResponse, 0, len(authors))
	for i := range authors {
		response = append(response, convertAuthorToResponse(&authors[i]))
	}
	c.JSON(http.StatusOK, response)
}

func GetAuthorById(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	author, err := repository.NewAuthorRepository(initializers.DB).FindById(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertAuthorToResponse(author))
}

func UpdateAuthor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	authors := repository.NewAuthorRepository(initializers.DB)
	author, err := authors.FindById(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Name != nil {
		author.Name = *req.Name
	}
	if req.BirthDate != nil {
		author.BirthDate = req.BirthDate
	}
	if req.Biography != nil {
		author.Biography = *req.Biography
	}
	if err := authors.Update(author); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertAuthorToResponse(author))
}

// DeleteAuthor removes the author and, through the cascade, every book
// (and ledger entry) that hangs off it.
func DeleteAuthor(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := repository.NewAuthorRepository(initializers.DB).Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func convertAuthorToResponse(author *models.Author) *AuthorResponse {
	return &AuthorResponse{
		Id:        author.Id,
		Name:      author.Name,
		BirthDate: author.BirthDate,
		Biography: author.Biography,
	}
}
