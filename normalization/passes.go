package normalization

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"btklist/models"
)

var (
	// nullLiterals значения, которые API использует вместо отсутствующих данных
	nullLiterals = map[string]struct{}{
		"":          {},
		"-":         {},
		"null":      {},
		"undefined": {},
	}

	addressReplacer = strings.NewReplacer(
		"|", " ",
		";", " ",
		"\t", " ",
		"\n", " ",
		"\r", " ",
	)

	webReplacer = strings.NewReplacer(
		"&", " ",
		";", " ",
		",", " ",
	)

	// strayMarks невидимые символы, попадающие в адреса сайтов при копировании
	strayMarks = strings.NewReplacer(
		"\u200e", "",
		"\u200b", "",
		"\ufeff", "",
	)
)

// IsSentinel сообщает, является ли значение заглушкой вместо данных
func IsSentinel(s string) bool {
	t := strings.TrimSpace(s)
	if _, ok := nullLiterals[strings.ToLower(t)]; ok {
		return true
	}
	return strings.Contains(t, "---")
}

// CoalesceSentinels заменяет заглушки на nil во всех строковых полях
func CoalesceSentinels(r *models.CompanyRecord) {
	for _, p := range textFields(r) {
		if *p != nil && IsSentinel(**p) {
			*p = nil
		}
	}
}

// StripDelimiters убирает символы, конфликтующие с табличным отчетом,
// и управляющие символы. Текст приводится к NFC.
func StripDelimiters(r *models.CompanyRecord) {
	for _, p := range textFields(r) {
		update(p, func(s string) string {
			return stripControl(norm.NFC.String(s))
		})
	}

	update(&r.Address, addressReplacer.Replace)
	update(&r.Web, func(s string) string {
		return webReplacer.Replace(strayMarks.Replace(s))
	})

	// Вертикальная черта ломает строку таблицы в любом поле
	for _, p := range []**string{&r.Company, &r.Type, &r.Phone, &r.Fax, &r.Web, &r.ApproveDate} {
		update(p, func(s string) string { return strings.ReplaceAll(s, "|", " ") })
	}
}

// CollapseWhitespace схлопывает повторяющиеся пробелы и обрезает края.
// Поле, ставшее пустым, превращается в nil.
func CollapseWhitespace(r *models.CompanyRecord) {
	for _, p := range textFields(r) {
		update(p, collapseSpaces)
		if *p != nil && **p == "" {
			*p = nil
		}
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripControl заменяет управляющие символы пробелом
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}
