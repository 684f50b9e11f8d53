package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUnmarshal(t *testing.T) {
	var raw RawCompany
	err := json.Unmarshal([]byte(`{"id":7,"company":"Acme","phone":5551234567,"fax":null,"approve_date":"2024-01-01 10:00:00+03"}`), &raw)
	require.NoError(t, err)

	assert.Equal(t, int64(7), raw.ID)
	assert.Equal(t, String("Acme"), raw.Company)
	assert.Equal(t, String("5551234567"), raw.Phone)
	assert.False(t, raw.Fax.Valid, "null fax must be invalid")
	assert.False(t, raw.Web.Valid, "missing web must be invalid")
	assert.True(t, raw.ApproveDate.Valid)
}

func TestFieldNonScalarIsMissing(t *testing.T) {
	for _, input := range []string{`true`, `{"a":1}`, `["x"]`} {
		var f Field
		require.NoError(t, json.Unmarshal([]byte(input), &f), input)
		assert.False(t, f.Valid, input)
	}
}

func TestFieldEmptyStringIsPresent(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`""`), &f))
	assert.True(t, f.Valid)
	assert.Equal(t, "", f.Value)
}

func TestCompanyRecordJSONUsesNull(t *testing.T) {
	rec := CompanyRecord{ID: 1, Company: Ptr("A Ltd")}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"company":"A Ltd","address":null,"type":null,"phone":null,"fax":null,"web":null,"approveDate":null}`, string(data))
}

func TestKey(t *testing.T) {
	a := CompanyRecord{ID: 1, Company: Ptr("X")}
	b := CompanyRecord{ID: 1, Company: Ptr("X"), Phone: Ptr("+90")}
	c := CompanyRecord{ID: 1}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
