package normalization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"btklist/models"
)

func TestCanonicalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"national number", "5551234567", "+905551234567"},
		{"leading trunk zero", "05325500085", "+905325500085"},
		{"already prefixed", "+905551234567", "+905551234567"},
		{"double prefix", "+9005551234567", "+905551234567"},
		{"country code without plus", "905551234567", "+905551234567"},
		{"international dialing prefix", "00905551234567", "+905551234567"},
		{"short code", "8771234567", "8771234567"},
		{"foreign number gets country code", "+441234567890", "+90+441234567890"},
		{"bare dialing prefix", "00", "+90"},
		{"only zeros", "000", "+90"},
		{"foreign dialing prefix", "0012125551234", "+9012125551234"},
		{"extension passes through", "3124290220 / 101", "+903124290220 / 101"},
		{"surrounding spaces", " 4441234 ", "+904441234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalizePhone(tt.input))
		})
	}
}

func TestCanonicalizePhone_AlwaysCountryCode(t *testing.T) {
	inputs := []string{"0", "00", "000", "0090", "00901", "0012125551234", "+1 555", "+900", "9", "1234"}
	for _, in := range inputs {
		out := CanonicalizePhone(in)
		assert.True(t, strings.HasPrefix(out, CountryCode), "%q -> %q", in, out)
		assert.False(t, strings.HasPrefix(out, CountryCode+"0"), "%q -> %q", in, out)
	}
}

func TestCanonicalizePhones_NullStaysNull(t *testing.T) {
	rec := &models.CompanyRecord{Phone: nil, Fax: models.Ptr("2121234567")}
	CanonicalizePhones(rec)

	assert.Nil(t, rec.Phone)
	assert.Equal(t, "+902121234567", models.Deref(rec.Fax))
}
