package normalization

import (
	"strings"

	"btklist/models"
)

const (
	// CountryCode международный код Турции
	CountryCode = "+90"
	// ShortCodePrefix префикс коротких номеров, которые не получают код страны
	ShortCodePrefix = "877"
)

// CanonicalizePhones приводит телефон и факс к виду с кодом страны
func CanonicalizePhones(r *models.CompanyRecord) {
	update(&r.Phone, CanonicalizePhone)
	update(&r.Fax, CanonicalizePhone)
}

// CanonicalizePhone добавляет префикс +90 к номеру. Формат и длина номера
// не проверяются, меняется только префикс. Любой номер, кроме коротких 877,
// на выходе начинается с +90.
func CanonicalizePhone(phone string) string {
	p := strings.TrimSpace(phone)
	if p == "" {
		return p
	}

	// 0090 - код страны с международным префиксом набора
	if strings.HasPrefix(p, "00"+CountryCode[1:]) {
		p = CountryCode + p[4:]
	}

	switch {
	case strings.HasPrefix(p, CountryCode):
	case strings.HasPrefix(p, ShortCodePrefix):
		return p
	case strings.HasPrefix(p, "90"):
		p = "+" + p
	default:
		p = CountryCode + p
	}

	// +900... появляется, когда к номеру с ведущим нулем добавили код страны
	for strings.HasPrefix(p, CountryCode+"0") {
		p = CountryCode + p[len(CountryCode)+1:]
	}
	return p
}
