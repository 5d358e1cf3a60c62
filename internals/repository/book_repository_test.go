package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.Author{},
		&models.Book{},
		&models.BookIssue{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.UserProfile {
	t.Helper()
	user := models.UserProfile{Email: email, Password: "hashed"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createBook(t *testing.T, db *gorm.DB, title, authorName, genre string, user *models.UserProfile) *models.Book {
	t.Helper()
	author := models.Author{Name: authorName}
	require.NoError(t, db.Create(&author).Error)
	book := models.Book{Title: title, Genre: genre, AuthorId: author.Id, UserId: user.Id}
	require.NoError(t, db.Create(&book).Error)
	return &book
}

func createIssue(t *testing.T, db *gorm.DB, book *models.Book, user *models.UserProfile, returned bool, rating *int) *models.BookIssue {
	t.Helper()
	issue := models.BookIssue{
		BookId:     book.Id,
		UserId:     user.Id,
		IssueDate:  models.Today(),
		IsReturned: returned,
		Rating:     rating,
	}
	if returned {
		rd := models.Today()
		issue.ReturnDate = &rd
	}
	require.NoError(t, db.Create(&issue).Error)
	return &issue
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func bookTitles(books []models.Book) []string {
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}
	return titles
}

func TestListAvailabilityFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	user := createUser(t, db, "reader@example.com")

	noIssues := createBook(t, db, "Shelved", "Gogol", "classic", user)
	onLoan := createBook(t, db, "Out", "Tolstoy", "classic", user)
	allBack := createBook(t, db, "Back", "Chekhov", "classic", user)
	mixed := createBook(t, db, "Mixed", "Bulgakov", "classic", user)

	createIssue(t, db, onLoan, user, false, nil)
	createIssue(t, db, allBack, user, true, nil)
	createIssue(t, db, allBack, user, true, nil)
	createIssue(t, db, mixed, user, true, nil)
	createIssue(t, db, mixed, user, false, nil)

	t.Run("no flag returns everything", func(t *testing.T) {
		books, err := repo.List(BookFilter{})
		require.NoError(t, err)
		assert.Len(t, books, 4)
	})

	t.Run("available books have no outstanding issue", func(t *testing.T) {
		books, err := repo.List(BookFilter{IsReturned: boolp(true)})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{noIssues.Title, allBack.Title}, bookTitles(books))
	})

	t.Run("on-loan books have at least one outstanding issue", func(t *testing.T) {
		books, err := repo.List(BookFilter{IsReturned: boolp(false)})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{onLoan.Title, mixed.Title}, bookTitles(books))
	})

	t.Run("books are never duplicated by multiple issues", func(t *testing.T) {
		createIssue(t, db, onLoan, user, false, nil)
		books, err := repo.List(BookFilter{IsReturned: boolp(false)})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{onLoan.Title, mixed.Title}, bookTitles(books))
	})
}

func TestListTextFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	user := createUser(t, db, "reader@example.com")

	createBook(t, db, "Dead Souls", "Nikolai Gogol", "satire", user)
	createBook(t, db, "War and Peace", "Leo Tolstoy", "historical", user)

	t.Run("title contains, case-insensitive", func(t *testing.T) {
		books, err := repo.List(BookFilter{Title: "dead"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dead Souls", books[0].Title)
	})

	t.Run("author name contains, case-insensitive", func(t *testing.T) {
		books, err := repo.List(BookFilter{AuthorName: "TOLSTOY"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "War and Peace", books[0].Title)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		books, err := repo.List(BookFilter{Title: "dead", Genre: "historical"})
		require.NoError(t, err)
		assert.Empty(t, books)
	})

	t.Run("author is preloaded", func(t *testing.T) {
		books, err := repo.List(BookFilter{Title: "dead"})
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Nikolai Gogol", books[0].Author.Name)
	})
}

func TestListOrdering(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	user := createUser(t, db, "reader@example.com")

	createBook(t, db, "Beta", "Zed", "a", user)
	createBook(t, db, "Alpha", "Young", "a", user)
	createBook(t, db, "Gamma", "Xu", "a", user)

	testCases := []struct {
		ordering string
		expected []string
	}{
		{"", []string{"Alpha", "Beta", "Gamma"}},
		{"title", []string{"Alpha", "Beta", "Gamma"}},
		{"-title", []string{"Gamma", "Beta", "Alpha"}},
		{"author__name", []string{"Gamma", "Alpha", "Beta"}},
		{"-author__name", []string{"Beta", "Alpha", "Gamma"}},
		{"bogus", []string{"Alpha", "Beta", "Gamma"}},
	}
	for _, tc := range testCases {
		t.Run("ordering="+tc.ordering, func(t *testing.T) {
			books, err := repo.List(BookFilter{Ordering: tc.ordering})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, bookTitles(books))
		})
	}
}

func TestAverageRating(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookRepository(db)
	user := createUser(t, db, "reader@example.com")
	book := createBook(t, db, "Rated", "Author", "genre", user)

	t.Run("no rated issues means zero", func(t *testing.T) {
		avg, err := repo.AverageRating(book.Id)
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)
	})

	t.Run("unreturned and unrated issues are excluded", func(t *testing.T) {
		createIssue(t, db, book, user, true, intp(4))
		createIssue(t, db, book, user, true, intp(5))
		createIssue(t, db, book, user, true, nil)
		createIssue(t, db, book, user, false, intp(3))

		avg, err := repo.AverageRating(book.Id)
		require.NoError(t, err)
		assert.Equal(t, 4.5, avg)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewBookRepository(db)
		user := createUser(t, db, "other@example.com")
		book := createBook(t, db, "Thirds", "Author", "genre", user)
		createIssue(t, db, book, user, true, intp(5))
		createIssue(t, db, book, user, true, intp(4))
		createIssue(t, db, book, user, true, intp(4))

		avg, err := repo.AverageRating(book.Id)
		require.NoError(t, err)
		assert.Equal(t, 4.33, avg)
	})
}

func TestCascadingDeletes(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "reader@example.com")
	book := createBook(t, db, "Doomed", "Author", "genre", user)
	createIssue(t, db, book, user, false, nil)

	t.Run("deleting a book removes its issues", func(t *testing.T) {
		require.NoError(t, NewBookRepository(db).Delete(book.Id))
		var count int64
		require.NoError(t, db.Model(&models.BookIssue{}).Where("book_id = ?", book.Id).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("deleting an author removes its books", func(t *testing.T) {
		book := createBook(t, db, "Doomed Too", "Removed", "genre", user)
		require.NoError(t, NewAuthorRepository(db).Delete(book.AuthorId))
		_, err := NewBookRepository(db).FindById(book.Id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestIssueCreateStampsToday(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "reader@example.com")
	book := createBook(t, db, "Fresh", "Author", "genre", user)

	issue := models.BookIssue{BookId: book.Id, UserId: user.Id}
	require.NoError(t, NewBookIssueRepository(db).Create(&issue))

	loaded, err := NewBookIssueRepository(db).FindById(issue.Id)
	require.NoError(t, err)
	assert.Equal(t, models.DateOf(time.Now().UTC()).String(), loaded.IssueDate.String())
	assert.False(t, loaded.IsReturned)
	assert.Nil(t, loaded.ReturnDate)
}
