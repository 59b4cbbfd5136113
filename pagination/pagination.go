package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultSize = 3
	MaxSize     = 100

	// MaxPage keeps Page*Size well inside a 32-bit offset.
	MaxPage = math.MaxInt32 / MaxSize
)

// Request is a zero-based page request.
type Request struct {
	Page int
	Size int
}

// New clamps page and size into their valid ranges.
func New(page, size int) Request {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Request{Page: page, Size: size}
}

// FromQuery reads ?page= and ?size=; unparsable values fall back to defaults.
func FromQuery(c *gin.Context) Request {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultSize)))
	return New(page, size)
}

func (r Request) Offset() int { return r.Page * r.Size }

// Scope applies LIMIT/OFFSET to a gorm query.
func (r Request) Scope(db *gorm.DB) *gorm.DB {
	r = New(r.Page, r.Size)
	return db.Offset(r.Offset()).Limit(r.Size)
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// NewPage builds a page; content is never nil so it encodes as [].
func NewPage[T any](content []T, req Request, total int64) Page[T] {
	req = New(req.Page, req.Size)
	if content == nil {
		content = []T{}
	}
	pages := int((total + int64(req.Size) - 1) / int64(req.Size))
	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
