package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zazzles-app/credit-ledger/internal/domain/entity"
	errs "github.com/zazzles-app/credit-ledger/internal/domain/error"
)

// IdempotencyKeyHeader lets callers retry a deduction without charging twice
const IdempotencyKeyHeader = "Idempotency-Key"

// businessID extracts the :businessId path parameter
func businessID(c *gin.Context) (uuid.UUID, bool) {
	id, err := entity.ParseBusinessID(c.Param("businessId"))
	if err != nil {
		_ = c.Error(err)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the body, reporting malformed input as ErrInvalidRequest
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %s", errs.ErrInvalidRequest, err.Error()))
		return false
	}
	return true
}

// pagination reads limit and offset query parameters. Zero means "use the default"
func pagination(c *gin.Context) (limit, offset int, ok bool) {
	limit, ok = queryInt(c, "limit")
	if !ok {
		return 0, 0, false
	}
	offset, ok = queryInt(c, "offset")
	if !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		_ = c.Error(fmt.Errorf("%w: %s must be a non-negative integer", errs.ErrInvalidRequest, name))
		return 0, false
	}
	return value, true
}
