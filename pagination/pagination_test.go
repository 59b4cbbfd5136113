package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewClamps(t *testing.T) {
	assert.Equal(t, Request{Page: 0, Size: DefaultSize}, New(-1, 0))
	assert.Equal(t, Request{Page: 2, Size: MaxSize}, New(2, 1000))
	assert.Equal(t, 10, New(2, 5).Offset())
}

func TestHugePageDoesNotOverflowOffset(t *testing.T) {
	const maxInt = int(^uint(0) >> 1)

	r := New(maxInt/2+1, 2)
	assert.Equal(t, MaxPage, r.Page)
	assert.Positive(t, r.Offset())
	assert.LessOrEqual(t, New(maxInt, MaxSize).Offset(), math.MaxInt32)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/x?page=4611686018427387904&size=2", nil)
	assert.GreaterOrEqual(t, FromQuery(c).Offset(), 0)
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, New(0, 3), 7)
	assert.Equal(t, 3, p.TotalPages)
	assert.EqualValues(t, 7, p.TotalElements)

	empty := NewPage[int](nil, New(0, 3), 0)
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/x?page=2&size=abc", nil)

	assert.Equal(t, Request{Page: 2, Size: DefaultSize}, FromQuery(c))
}
