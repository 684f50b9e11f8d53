package normalization

import (
	"strings"
	"time"

	"btklist/models"
)

// upstreamLocation часовой пояс API для дат без смещения
var upstreamLocation = time.FixedZone("TRT", 3*60*60)

// approveDateLayouts форматы даты одобрения в порядке проверки
var approveDateLayouts = []string{
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReformatApproveDate переводит дату одобрения в RFC3339
func ReformatApproveDate(r *models.CompanyRecord) {
	update(&r.ApproveDate, FormatApproveDate)
}

// FormatApproveDate превращает "2024-01-01 10:00:00+03" в "2024-01-01T10:00:00+03:00".
// Смещение сохраняется. Нераспознанное значение возвращается без изменений.
func FormatApproveDate(value string) string {
	v := strings.TrimSpace(value)
	for _, layout := range approveDateLayouts {
		t, err := time.ParseInLocation(layout, v, upstreamLocation)
		if err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return v
}
