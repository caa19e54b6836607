package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"servio/shared"
	"servio/shared/constant"
	"servio/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "zero total", total: 0, limit: 10, want: 1},
		{name: "exact division", total: 20, limit: 10, want: 2},
		{name: "remainder rounds up", total: 21, limit: 10, want: 3},
		{name: "zero limit", total: 5, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Status string `db:"status"`
		Notes  string `db:"notes"`
		Skip   string
	}

	fields := shared.TransformFields(patch{Status: "confirmed"}, "admin-1")

	assert.Equal(t, "confirmed", fields["status"])
	assert.NotContains(t, fields, "notes")
	assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get:abc", shared.BuildCacheKey("booking:get", "abc"))
}

func TestBuildCacheKeyWithQuery_Distinct(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10}

	filterA := shared.FilterByID("a", "id", "bookings")
	filterB := shared.FilterByID("b", "id", "bookings")

	keyA := shared.BuildCacheKeyWithQuery("booking:gets", params, filterA)
	keyB := shared.BuildCacheKeyWithQuery("booking:gets", params, filterB)

	assert.NotEqual(t, keyA, keyB)
	assert.Equal(t, keyA, shared.BuildCacheKeyWithQuery("booking:gets", params, filterA))
}

func TestConvertStringToBool(t *testing.T) {
	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("not-a-bool"))

	v := shared.ConvertStringToBool("true")
	if assert.NotNil(t, v) {
		assert.True(t, *v)
	}
}
