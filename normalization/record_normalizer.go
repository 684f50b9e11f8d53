package normalization

import (
	"btklist/models"
)

// Pass один шаг нормализации записи. Шаги применяются по порядку
// и изменяют запись на месте.
type Pass struct {
	Name  string
	Apply func(r *models.CompanyRecord)
}

// DefaultPasses возвращает стандартную последовательность шагов:
// пустые значения, разделители, пробелы, телефоны, дата одобрения.
func DefaultPasses() []Pass {
	return []Pass{
		{Name: "coalesce_sentinels", Apply: CoalesceSentinels},
		{Name: "strip_delimiters", Apply: StripDelimiters},
		{Name: "collapse_whitespace", Apply: CollapseWhitespace},
		{Name: "canonicalize_phones", Apply: CanonicalizePhones},
		{Name: "reformat_approve_date", Apply: ReformatApproveDate},
	}
}

// RecordNormalizer нормализатор записей о компаниях
type RecordNormalizer struct {
	passes []Pass
}

// NewRecordNormalizer создает нормализатор. Без аргументов используются DefaultPasses.
func NewRecordNormalizer(passes ...Pass) *RecordNormalizer {
	if len(passes) == 0 {
		passes = DefaultPasses()
	}
	return &RecordNormalizer{passes: passes}
}

// Passes возвращает имена шагов в порядке применения
func (n *RecordNormalizer) Passes() []string {
	names := make([]string, 0, len(n.passes))
	for _, p := range n.passes {
		names = append(names, p.Name)
	}
	return names
}

// Normalize превращает исходную запись в нормализованную.
// Возвращает nil, если у записи нет одного из обязательных текстовых полей.
func (n *RecordNormalizer) Normalize(raw models.RawCompany) *models.CompanyRecord {
	if !hasRequiredFields(raw) {
		return nil
	}

	rec := &models.CompanyRecord{
		ID:          raw.ID,
		Company:     fieldPtr(raw.Company),
		Address:     fieldPtr(raw.Address),
		Type:        fieldPtr(raw.Type),
		Phone:       fieldPtr(raw.Phone),
		Fax:         fieldPtr(raw.Fax),
		Web:         fieldPtr(raw.Web),
		ApproveDate: fieldPtr(raw.ApproveDate),
	}

	for _, p := range n.passes {
		p.Apply(rec)
	}
	return rec
}

// NormalizeAll нормализует последовательность записей, сохраняя порядок.
// Отклоненные записи остаются в результате как nil.
func (n *RecordNormalizer) NormalizeAll(raws []models.RawCompany) []*models.CompanyRecord {
	out := make([]*models.CompanyRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, n.Normalize(raw))
	}
	return out
}

// hasRequiredFields проверяет, что все основные текстовые поля пришли строками
func hasRequiredFields(raw models.RawCompany) bool {
	for _, f := range []models.Field{raw.Company, raw.Address, raw.Type, raw.Phone, raw.Fax, raw.Web} {
		if !f.Valid {
			return false
		}
	}
	return true
}

func fieldPtr(f models.Field) *string {
	if !f.Valid {
		return nil
	}
	return models.Ptr(f.Value)
}

// textFields возвращает адреса всех строковых полей записи
func textFields(r *models.CompanyRecord) []**string {
	return []**string{&r.Company, &r.Address, &r.Type, &r.Phone, &r.Fax, &r.Web, &r.ApproveDate}
}

// update применяет fn к непустому полю
func update(p **string, fn func(string) string) {
	if *p == nil {
		return
	}
	v := fn(**p)
	*p = &v
}
