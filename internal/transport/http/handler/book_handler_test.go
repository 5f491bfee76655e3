package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-bookshelf/internal/domain"
)

func (e *testEnv) createBook(token, title, author string, year int) uint {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/books", gin.H{"title": title, "author": author, "year": year}, token)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	book, ok := e.decode(rec)["book"].(map[string]any)
	require.True(e.t, ok)
	id, ok := book["id"].(float64)
	require.True(e.t, ok)
	return uint(id)
}

func (e *testEnv) authedUser() string {
	e.t.Helper()
	e.register("bookkeeper", "longenough1")
	token, _ := e.login("bookkeeper", "longenough1")
	return token
}

func TestBookCreateRequiresAllFields(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing title", body: gin.H{"author": "B", "year": 2020}},
		{name: "missing author", body: gin.H{"title": "A", "year": 2020}},
		{name: "missing year", body: gin.H{"title": "A", "author": "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/books", tt.body, token)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "All fields are required", env.decode(rec)["error"])
			requireSingleJSON(t, rec)
		})
	}
}

func TestBookCreateRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/books", gin.H{"title": "A", "author": "B", "year": 2020}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookCreateGetRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	id := env.createBook(token, "A", "B", 2020)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/books/%d", id), nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	book := env.decode(rec)["book"].(map[string]any)
	assert.Equal(t, "A", book["title"])
	assert.Equal(t, "B", book["author"])
	assert.EqualValues(t, 2020, book["year"])
	assert.Nil(t, book["deletedAt"])
}

func TestBookListIsPublicAndOrdered(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	env.createBook(token, "First", "X", 2001)
	env.createBook(token, "Second", "Y", 2002)
	env.createBook(token, "Third", "Z", 2003)

	rec := env.do(http.MethodGet, "/api/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	books, ok := env.decode(rec)["books"].([]any)
	require.True(t, ok)
	require.Len(t, books, 3)
	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.(map[string]any)["title"].(string))
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, titles)
}

func TestBookListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)

	// 空库：books 必须是 []，不能序列化成 null
	rec := env.do(http.MethodGet, "/api/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"books":[]`)
	books, ok := env.decode(rec)["books"].([]any)
	require.True(t, ok, rec.Body.String())
	assert.Empty(t, books)

	// 唯一一本也被软删后同样如此
	token := env.authedUser()
	id := env.createBook(token, "Only", "O", 2020)
	del := env.do(http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, token)
	require.Equal(t, http.StatusOK, del.Code)

	rec = env.do(http.MethodGet, "/api/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	books, ok = env.decode(rec)["books"].([]any)
	require.True(t, ok, rec.Body.String())
	assert.Empty(t, books)
}

func TestBookInvalidID(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	for _, path := range []string{"/api/books/abc", "/api/books/12x"} {
		rec := env.do(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Invalid book ID", env.decode(rec)["error"])
	}

	rec := env.do(http.MethodPut, "/api/books/abc", gin.H{"title": "A", "author": "B", "year": 1}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodDelete, "/api/books/abc", nil, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookNotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	rec := env.do(http.MethodGet, "/api/books/999", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Book not found", env.decode(rec)["error"])
	requireSingleJSON(t, rec)

	rec = env.do(http.MethodPut, "/api/books/999", gin.H{"title": "A", "author": "B", "year": 1}, token)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/api/books/999", nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookUpdate(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	id := env.createBook(token, "Old Title", "Old Author", 1999)

	rec := env.do(http.MethodPut, fmt.Sprintf("/api/books/%d", id),
		gin.H{"title": "New Title", "author": "New Author", "year": 2024}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	book := env.decode(rec)["book"].(map[string]any)
	assert.Equal(t, "New Title", book["title"])
	assert.Equal(t, "New Author", book["author"])
	assert.EqualValues(t, 2024, book["year"])

	var stored domain.Book
	require.NoError(t, env.DB.First(&stored, id).Error)
	assert.Equal(t, "New Title", stored.Title)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt) || stored.UpdatedAt.Equal(stored.CreatedAt))
}

func TestBookPartialUpdatePreservesFields(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	id := env.createBook(token, "Keep Title", "Keep Author", 1999)

	// 只传 title，author / year 不能被抹成零值
	rec := env.do(http.MethodPut, fmt.Sprintf("/api/books/%d", id), gin.H{"title": "New Title"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	book := env.decode(rec)["book"].(map[string]any)
	assert.Equal(t, "New Title", book["title"])
	assert.Equal(t, "Keep Author", book["author"])
	assert.EqualValues(t, 1999, book["year"])
}

func TestBookSoftDeleteVisibility(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()

	keep := env.createBook(token, "Keeper", "K", 2020)
	doomed := env.createBook(token, "Doomed", "D", 2021)

	rec := env.do(http.MethodDelete, fmt.Sprintf("/api/books/%d", doomed), nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	deleted := env.decode(rec)["book"].(map[string]any)
	assert.NotNil(t, deleted["deletedAt"])

	// 列表里消失
	rec = env.do(http.MethodGet, "/api/books", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	books := env.decode(rec)["books"].([]any)
	require.Len(t, books, 1)
	assert.EqualValues(t, keep, books[0].(map[string]any)["id"])

	// 按 id 还取得到，deletedAt 非空
	rec = env.do(http.MethodGet, fmt.Sprintf("/api/books/%d", doomed), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := env.decode(rec)["book"].(map[string]any)
	assert.NotNil(t, fetched["deletedAt"])

	// 行并没有被物理删掉
	var count int64
	require.NoError(t, env.DB.Unscoped().Model(&domain.Book{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestBookMutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	token := env.authedUser()
	id := env.createBook(token, "A", "B", 2020)

	rec := env.do(http.MethodPut, fmt.Sprintf("/api/books/%d", id), gin.H{"title": "X", "author": "Y", "year": 1}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/books/%d", id), nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
