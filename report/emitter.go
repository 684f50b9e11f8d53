package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"btklist/models"
)

const (
	// Title заголовок табличного отчета
	Title = "Ticari Amaçlı Hizmet Verenler Yer Sağlayıcı Listesi"
	// NullCell значение ячейки для отсутствующего поля
	NullCell = "-"

	filePerm = 0o644
)

// Columns заголовки колонок отчета в порядке вывода
var Columns = []string{"ID", "İşletmeci", "Türü", "Adres", "Telefon", "Faks", "Web", "Onay Tarihi"}

// EmitterConfig пути артефактов
type EmitterConfig struct {
	SnapshotPath string
	ReportPath   string
	ExcelPath    string // пустой путь отключает книгу Excel
	SourceURL    string
}

// Emitter записывает снимок в JSON, табличный отчет и книгу Excel
type Emitter struct {
	fs     afero.Fs
	config EmitterConfig
}

// NewEmitter создает эмиттер поверх файловой системы fs
func NewEmitter(fs afero.Fs, config EmitterConfig) *Emitter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Emitter{fs: fs, config: config}
}

// Emit записывает все артефакты. Первая ошибка прерывает запись,
// уже записанные файлы не откатываются.
func (e *Emitter) Emit(records []*models.CompanyRecord, total int) error {
	if err := e.WriteSnapshot(records); err != nil {
		return err
	}
	if err := e.WriteReport(records, total); err != nil {
		return err
	}
	if e.config.ExcelPath != "" {
		if err := e.WriteWorkbook(records, total); err != nil {
			return err
		}
	}
	return nil
}

// WriteSnapshot записывает массив записей в JSON с отступами
func (e *Emitter) WriteSnapshot(records []*models.CompanyRecord) error {
	path := e.config.SnapshotPath
	if records == nil {
		records = []*models.CompanyRecord{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return artifactError("snapshot", path, "encode", err)
	}

	if err := afero.WriteFile(e.fs, path, buf.Bytes(), filePerm); err != nil {
		return artifactError("snapshot", path, "write", err)
	}
	return nil
}

// WriteReport перезаписывает табличный отчет: сначала файл очищается,
// затем дописывается заголовок, затем строки данных.
func (e *Emitter) WriteReport(records []*models.CompanyRecord, total int) error {
	path := e.config.ReportPath

	if err := afero.WriteFile(e.fs, path, nil, filePerm); err != nil {
		return artifactError("report", path, "create", err)
	}
	if err := e.appendFile(path, RenderHeader(total, e.config.SourceURL)); err != nil {
		return artifactError("report", path, "append", err)
	}

	var rows strings.Builder
	for _, rec := range records {
		rows.WriteString(RenderRow(rec))
	}
	if err := e.appendFile(path, rows.String()); err != nil {
		return artifactError("report", path, "append", err)
	}
	return nil
}

func (e *Emitter) appendFile(path, content string) error {
	file, err := e.fs.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, filePerm)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// RenderHeader возвращает шапку отчета: название, количество, источник, заголовки колонок
func RenderHeader(total int, sourceURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "## Kayıt Sayısı: %d\n\n", total)
	fmt.Fprintf(&b, "### Kaynak: <%s>\n\n", sourceURL)
	b.WriteString(tableRow(Columns))

	separators := make([]string, len(Columns))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString(tableRow(separators))
	return b.String()
}

// RenderRow возвращает строку таблицы для записи
func RenderRow(rec *models.CompanyRecord) string {
	return tableRow(rowValues(rec))
}

func rowValues(rec *models.CompanyRecord) []string {
	return []string{
		strconv.FormatInt(rec.ID, 10),
		cell(rec.Company),
		cell(rec.Type),
		cell(rec.Address),
		cell(rec.Phone),
		cell(rec.Fax),
		cell(rec.Web),
		cell(rec.ApproveDate),
	}
}

func tableRow(values []string) string {
	return "| " + strings.Join(values, " | ") + " |\n"
}

func cell(value *string) string {
	if value == nil {
		return NullCell
	}
	return *value
}
