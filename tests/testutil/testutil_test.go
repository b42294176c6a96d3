package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/preorder/backoffice/internal/infrastructure/persistence/models"
	"github.com/preorder/backoffice/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDB_IsolatedPerTest(t *testing.T) {
	first := NewSQLiteDB(t)
	second := NewSQLiteDB(t)

	require.NoError(t, first.DB.Create(&models.ExpenseModel{
		BaseModel:   models.BaseModel{ID: NewTestUUID("flour"), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Description: "flour",
		Amount:      decimal.NewFromInt(120),
	}).Error)

	var count int64
	require.NoError(t, second.DB.Table("expenses").Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewTestUUID_Stable(t *testing.T) {
	assert.Equal(t, NewTestUUID("order-1"), NewTestUUID("order-1"))
	assert.NotEqual(t, NewTestUUID("order-1"), NewTestUUID("order-2"))
}

func echoEngine() *gin.Engine {
	engine := gin.New()
	engine.POST("/echo/:name", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeValidation, err.Error()))
			return
		}
		body["name"] = c.Param("name")
		c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(body, 11, 2, 5))
	})
	return engine
}

func TestServeJSON_RoundTrip(t *testing.T) {
	w := ServeJSON(t, echoEngine(), http.MethodPost, "/echo/brownie", map[string]any{"qty": 3})

	require.Equal(t, http.StatusOK, w.Code)
	data := DecodeData[map[string]any](t, w)
	assert.Equal(t, "brownie", data["name"])
	assert.Equal(t, float64(3), data["qty"])

	meta := DecodeMeta(t, w)
	assert.Equal(t, int64(11), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
}

func TestServeJSON_NoBody(t *testing.T) {
	w := ServeJSON(t, echoEngine(), http.MethodPost, "/echo/brownie", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, ErrorCode(t, w))
}
