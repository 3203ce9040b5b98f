package services

import (
	"fmt"
	"sort"
	"strings"

	"sklad-backend/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Іконки рядків-заголовків
const (
	HeaderIconUnit    = "unit"
	HeaderIconSection = "section"
)

// DisplayRow — транзитний рядок таблиці: або маркер заголовка групи
// (підрозділ/відділ), або рядок даних з обчисленим порядковим номером.
// Ніколи не зберігається, перебудовується на кожен запит.
type DisplayRow struct {
	ID          uint                   `json:"id"`
	IsHeader    bool                   `json:"is_header,omitempty"`
	HeaderTitle string                 `json:"header_title,omitempty"`
	HeaderIcon  string                 `json:"header_icon,omitempty"`
	AutoNumber  int                    `json:"auto_number,omitempty"`
	UnitID      uint                   `json:"unit_id,omitempty"`
	SectionID   uint                   `json:"section_id,omitempty"`
	Values      map[string]interface{} `json:"values,omitempty"`
}

// SortSpec — специфікація сортування за одним стовпцем
type SortSpec struct {
	Field string `json:"field"`
	Dir   string `json:"dir"` // asc або desc
}

// TableResult — результат обробки таблиці разом з лічильниками рядків
// даних до і після фільтрації (для статусного тексту інтерфейсу).
type TableResult struct {
	Rows          []DisplayRow `json:"rows"`
	TotalItems    int          `json:"total_items"`
	FilteredItems int          `json:"filtered_items"`
}

// Колатор для українського сортування рядків, аналог localeCompare('uk-UA')
var ukCollator = collate.New(language.Ukrainian)

// ItemValues розгортає запис у плоску мапу значень за ідентифікаторами
// полів конфігурації. Атрибути поза конфігурацією теж потрапляють у мапу,
// щоб пошук бачив усі значення запису.
func ItemValues(item *models.Item, fields []models.FieldDefinition) map[string]interface{} {
	values := map[string]interface{}{}
	for _, f := range fields {
		if f.ID == models.FieldAutoNumber {
			continue
		}
		if v := item.Value(f.ID); v != nil {
			values[f.ID] = v
		}
	}
	for k, v := range item.Attributes {
		if _, ok := values[k]; !ok && v != nil {
			values[k] = v
		}
	}
	return values
}

// BuildRows складає послідовність рядків відображення: заголовок
// підрозділу, його записи без відділу, потім заголовок кожного відділу
// з його записами. Порядок підрозділів/відділів — порядок створення,
// порядок записів — порядок вибірки.
func BuildRows(units []models.Unit, sections []models.Section, items []models.Item, fields []models.FieldDefinition) []DisplayRow {
	rows := []DisplayRow{}

	appendItem := func(item models.Item) {
		rows = append(rows, DisplayRow{
			ID:        item.ID,
			UnitID:    item.UnitID,
			SectionID: item.SectionID,
			Values:    ItemValues(&item, fields),
		})
	}

	for _, unit := range units {
		rows = append(rows, DisplayRow{
			IsHeader:    true,
			HeaderTitle: unit.Name + " (підрозділ)",
			HeaderIcon:  HeaderIconUnit,
			UnitID:      unit.ID,
		})

		// Записи, що належать підрозділу безпосередньо
		for _, item := range items {
			if item.UnitID == unit.ID && item.SectionID == 0 {
				appendItem(item)
			}
		}

		// Відділи підрозділу зі своїми записами
		for _, section := range sections {
			if section.UnitID != unit.ID {
				continue
			}
			rows = append(rows, DisplayRow{
				IsHeader:    true,
				HeaderTitle: section.Name + " (відділ)",
				HeaderIcon:  HeaderIconSection,
				UnitID:      section.UnitID,
				SectionID:   section.ID,
			})
			for _, item := range items {
				if item.SectionID == section.ID {
					appendItem(item)
				}
			}
		}
	}

	return rows
}

// Process проганяє рядки крізь конвеєр таблиці: сортування в межах груп,
// фільтрація зі збереженням заголовків, призначення порядкових номерів.
func Process(rows []DisplayRow, search string, spec SortSpec) TableResult {
	total := countDataRows(rows)

	sorted := SortGrouped(rows, spec)
	filtered := FilterGrouped(sorted, search)
	numbered := AssignNumbers(filtered)

	return TableResult{
		Rows:          numbered,
		TotalItems:    total,
		FilteredItems: countDataRows(numbered),
	}
}

// SortGrouped сортує рядки даних у межах груп, обмежених заголовками;
// рядки ніколи не перетинають межу заголовка. Порядковий номер і стовпець
// дій не є припустимими цілями сортування — така специфікація ігнорується.
func SortGrouped(rows []DisplayRow, spec SortSpec) []DisplayRow {
	if spec.Field == "" || spec.Field == models.FieldAutoNumber || spec.Field == "actions" {
		return rows
	}
	if spec.Dir != "asc" && spec.Dir != "desc" {
		return rows
	}

	result := make([]DisplayRow, 0, len(rows))
	run := []DisplayRow{}

	flush := func() {
		sortRun(run, spec)
		result = append(result, run...)
		run = nil
	}

	for _, row := range rows {
		if row.IsHeader {
			flush()
			result = append(result, row)
		} else {
			run = append(run, row)
		}
	}
	// Остання група без наступного заголовка теж сортується
	flush()

	return result
}

// sortRun стабільно сортує одну групу рядків даних
func sortRun(run []DisplayRow, spec SortSpec) {
	sort.SliceStable(run, func(i, j int) bool {
		cmp := compareValues(run[i].Values[spec.Field], run[j].Values[spec.Field])
		if spec.Dir == "desc" {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareValues порівнює значення комірок: числа — чисельно, рядки —
// з українським колатором, змішані або відсутні значення — колатором
// за їх рядковою формою.
func compareValues(a, b interface{}) int {
	aNum, aIsNum := toNumber(a)
	bNum, bIsNum := toNumber(b)
	if aIsNum && bIsNum {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		}
		return 0
	}
	return ukCollator.CompareString(valueString(a), valueString(b))
}

// toNumber намагається привести значення комірки до числа
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// valueString повертає рядкову форму значення комірки
func valueString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// FilterGrouped фільтрує рядки за пошуковим рядком без урахування
// регістру. Заголовок залишається лише тоді, коли збігся хоча б один
// його рядок даних; групи без збігів зникають цілком разом з рядками.
func FilterGrouped(rows []DisplayRow, search string) []DisplayRow {
	if search == "" {
		return rows
	}
	needle := strings.ToLower(search)

	filtered := []DisplayRow{}
	var currentHeader *DisplayRow
	headerHasResults := false

	for i := range rows {
		row := rows[i]
		if row.IsHeader {
			currentHeader = &rows[i]
			headerHasResults = false
			continue
		}

		if !rowMatches(row, needle) {
			continue
		}

		if currentHeader != nil && !headerHasResults {
			filtered = append(filtered, *currentHeader)
			headerHasResults = true
		}
		filtered = append(filtered, row)
	}

	return filtered
}

// rowMatches перевіряє, чи містить будь-яке значення рядка пошуковий підрядок
func rowMatches(row DisplayRow, needle string) bool {
	for _, v := range row.Values {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(valueString(v)), needle) {
			return true
		}
	}
	return false
}

// AssignNumbers призначає рядкам даних порядкові номери 1..k у поточному
// порядку відображення; заголовки не рахуються.
func AssignNumbers(rows []DisplayRow) []DisplayRow {
	numbered := make([]DisplayRow, len(rows))
	counter := 0
	for i, row := range rows {
		if !row.IsHeader {
			counter++
			row.AutoNumber = counter
		}
		numbered[i] = row
	}
	return numbered
}

// countDataRows рахує рядки даних у послідовності
func countDataRows(rows []DisplayRow) int {
	count := 0
	for _, row := range rows {
		if !row.IsHeader {
			count++
		}
	}
	return count
}
