package models

import (
	"bytes"
	"encoding/json"
)

// Field строковое поле исходной записи с признаком наличия.
// Valid == false означает, что поле отсутствует в объекте или равно null.
type Field struct {
	Value string
	Valid bool
}

// UnmarshalJSON принимает строку, число или null
func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = Field{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field{Value: s, Valid: true}
		return nil
	}

	// Числа (например, телефон без кавычек) сохраняем как есть
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = Field{}
		return nil
	}
	*f = Field{Value: n.String(), Valid: true}
	return nil
}

// MarshalJSON сериализует отсутствующее поле как null
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// String возвращает поле из строки
func String(s string) Field {
	return Field{Value: s, Valid: true}
}

// RawCompany запись в том виде, в котором её отдает API
type RawCompany struct {
	ID          int64 `json:"id"`
	Company     Field `json:"company"`
	Address     Field `json:"address"`
	Type        Field `json:"type"`
	Phone       Field `json:"phone"`
	Fax         Field `json:"fax"`
	Web         Field `json:"web"`
	ApproveDate Field `json:"approve_date"`
}

// Stats блок статистики конверта
type Stats struct {
	Total int `json:"total"`
}

// Envelope ответ API на запрос одной страницы
type Envelope struct {
	Data  []RawCompany `json:"data"`
	Stats Stats        `json:"stats"`
}

// CompanyRecord нормализованная запись о поставщике услуг.
// nil в строковом поле - явный маркер отсутствия значения.
type CompanyRecord struct {
	ID          int64   `json:"id"`
	Company     *string `json:"company"`
	Address     *string `json:"address"`
	Type        *string `json:"type"`
	Phone       *string `json:"phone"`
	Fax         *string `json:"fax"`
	Web         *string `json:"web"`
	ApproveDate *string `json:"approveDate"`
}

// IdentityKey ключ идентичности записи для дедупликации
type IdentityKey struct {
	ID      int64
	Company string
}

// Key возвращает ключ идентичности (id, company)
func (r *CompanyRecord) Key() IdentityKey {
	return IdentityKey{ID: r.ID, Company: Deref(r.Company)}
}

// Deref возвращает значение или пустую строку для nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr возвращает указатель на копию строки
func Ptr(s string) *string {
	return &s
}
