package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"btklist/models"
)

func TestFormatApproveDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2024-10-08 19:33:52+03", "2024-10-08T19:33:52+03:00"},
		{"2024-01-01 10:00:00+00", "2024-01-01T10:00:00Z"},
		{" 2024-10-24 14:07:31+03 ", "2024-10-24T14:07:31+03:00"},
		{"2024-10-24 14:07:31.123456+03", "2024-10-24T14:07:31+03:00"},
		{"2024-10-24T14:07:31+03:00", "2024-10-24T14:07:31+03:00"},
		{"2024-10-24 14:07:31", "2024-10-24T14:07:31+03:00"},
		{"2024-10-24", "2024-10-24T00:00:00+03:00"},
		{"24.10.2024", "24.10.2024"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatApproveDate(tt.input))
		})
	}
}

func TestReformatApproveDate(t *testing.T) {
	rec := &models.CompanyRecord{ApproveDate: models.Ptr("2024-01-02 11:00:00+03")}
	ReformatApproveDate(rec)
	assert.Equal(t, "2024-01-02T11:00:00+03:00", models.Deref(rec.ApproveDate))

	empty := &models.CompanyRecord{}
	ReformatApproveDate(empty)
	assert.Nil(t, empty.ApproveDate)
}
