package normalization

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"btklist/models"
)

// DefaultCollationLocale язык, по правилам которого сортируются названия
const DefaultCollationLocale = "tr"

// DedupResult результат дедупликации
type DedupResult struct {
	Records    []*models.CompanyRecord
	Rejected   int // отклоненные нормализатором (nil)
	Duplicates int // отброшенные повторы по ключу (id, company)
}

// Deduplicate отбрасывает nil и повторы по ключу (id, company).
// Остается первое вхождение, относительный порядок сохраняется.
func Deduplicate(records []*models.CompanyRecord) DedupResult {
	result := DedupResult{Records: make([]*models.CompanyRecord, 0, len(records))}
	seen := make(map[models.IdentityKey]struct{}, len(records))

	for _, rec := range records {
		if rec == nil {
			result.Rejected++
			continue
		}
		key := rec.Key()
		if _, ok := seen[key]; ok {
			result.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		result.Records = append(result.Records, rec)
	}

	return result
}

// CompanySorter сортирует записи по названию с учетом правил языка
type CompanySorter struct {
	tag language.Tag
}

// NewCompanySorter создает сортировщик для локали, например "tr"
func NewCompanySorter(locale string) *CompanySorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Turkish
	}
	return &CompanySorter{tag: tag}
}

// Sort выполняет устойчивую сортировку по названию компании на месте
func (s *CompanySorter) Sort(records []*models.CompanyRecord) {
	// Collator не потокобезопасен, создаем на каждый вызов
	c := collate.New(s.tag)
	sort.SliceStable(records, func(i, j int) bool {
		return c.CompareString(models.Deref(records[i].Company), models.Deref(records[j].Company)) < 0
	})
}

// DeduplicateAndSort отбрасывает nil и повторы, затем сортирует по названию
func (s *CompanySorter) DeduplicateAndSort(records []*models.CompanyRecord) DedupResult {
	result := Deduplicate(records)
	s.Sort(result.Records)
	return result
}
