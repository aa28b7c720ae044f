package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocktrack/internal/core/apperror"
	"stocktrack/internal/core/id"
)

func TestRangeQuery_ToFilter(t *testing.T) {
	userID := id.New()
	q := RangeQuery{
		From: "2026-03-01",
		To:   "2026-03-05",
		Code: "wid",
		User: userID.String(),
	}

	filter, err := q.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), filter.From)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), filter.To)
	assert.Equal(t, "wid", filter.CodeSearch)
	assert.Equal(t, userID, filter.UserID)
}

func TestRangeQuery_ToFilterInvalidUser(t *testing.T) {
	_, err := RangeQuery{User: "not-a-uuid"}.ToFilter()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRangeQuery_ToFilterInvalidDate(t *testing.T) {
	_, err := RangeQuery{From: "03/01/2026", To: "2026-03-05"}.ToFilter()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidRange, appErr.Code)
}
