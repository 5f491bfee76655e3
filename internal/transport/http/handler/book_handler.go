package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-gin-bookshelf/internal/core/cache"
	"go-gin-bookshelf/internal/domain"
	resp "go-gin-bookshelf/internal/transport/http/response"
)

const (
	bookListKey = "books:all"
	bookListTTL = 30 * time.Second
)

type BookHandler struct {
	books domain.BookRepository
	cache *cache.Cache // 可为 nil（未配置 Redis）
	log   *zap.Logger
}

func NewBookHandler(books domain.BookRepository, ch *cache.Cache, log *zap.Logger) *BookHandler {
	return &BookHandler{books: books, cache: ch, log: log}
}

type bookIn struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   *int   `json:"year"`
}

// POST /api/books （鉴权路由）
func (h *BookHandler) Create(c *gin.Context) {
	var in bookIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" || in.Author == "" || in.Year == nil {
		resp.Error(c, http.StatusBadRequest, "All fields are required")
		return
	}

	b := domain.Book{Title: in.Title, Author: in.Author, Year: in.Year}
	if err := h.books.Create(&b); err != nil {
		h.log.Error("create book failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Failed to create book")
		return
	}
	h.invalidate(c)

	resp.Created(c, "Book created", gin.H{"book": b})
}

// GET /api/books — 只列未软删的
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.listCached(c)
	if err != nil {
		h.log.Error("list books failed", zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Failed to retrieve books")
		return
	}

	resp.OK(c, "Books retrieved successfully", gin.H{"books": books})
}

// GET /api/books/:id — 软删的也能按 id 取到
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	b, err := h.books.FindByID(id)
	if err != nil {
		h.log.Error("get book failed", zap.Uint("id", id), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Failed to retrieve book")
		return
	}
	if b == nil {
		resp.Error(c, http.StatusNotFound, resp.MsgBookNotFound)
		return
	}

	resp.OK(c, "Book retrieved successfully", gin.H{"book": b})
}

// PUT /api/books/:id （鉴权路由）
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	var in bookIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.books.Update(id, in.Title, in.Author, in.Year)
	if err != nil {
		h.log.Error("update book failed", zap.Uint("id", id), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Failed to update book")
		return
	}
	if b == nil {
		resp.Error(c, http.StatusNotFound, resp.MsgBookNotFound)
		return
	}
	h.invalidate(c)

	resp.OK(c, "Book updated successfully", gin.H{"book": b})
}

// DELETE /api/books/:id （鉴权路由）— 软删，返回打标后的记录
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	b, err := h.books.SoftDelete(id)
	if err != nil {
		h.log.Error("delete book failed", zap.Uint("id", id), zap.Error(err))
		resp.Error(c, http.StatusInternalServerError, "Failed to soft-delete book")
		return
	}
	if b == nil {
		resp.Error(c, http.StatusNotFound, resp.MsgBookNotFound)
		return
	}
	h.invalidate(c)

	resp.OK(c, "Book soft-deleted successfully", gin.H{"book": b})
}

func (h *BookHandler) listCached(ctx context.Context) ([]domain.Book, error) {
	if h.cache == nil {
		return h.books.List()
	}
	out, err := cache.GetOrLoadJSON[[]domain.Book](h.cache, ctx, bookListKey, bookListTTL,
		func(context.Context) (*[]domain.Book, error) {
			books, e := h.books.List()
			if e != nil {
				return nil, e
			}
			return &books, nil
		})
	if err != nil || out == nil {
		return nil, err
	}
	return *out, nil
}

func (h *BookHandler) invalidate(ctx context.Context) {
	if h.cache != nil {
		h.cache.Invalidate(ctx, bookListKey)
	}
}

// parseBookID 失败时已写好 400 响应
func parseBookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		resp.Error(c, http.StatusBadRequest, resp.MsgInvalidBookID)
		return 0, false
	}
	return uint(id), true
}
