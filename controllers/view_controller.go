package controllers

import (
	"net/url"
	"strconv"
	"time"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ViewController контролер зведеної таблиці обліку та її експорту
type ViewController struct {
	db *gorm.DB
}

// NewViewController створює новий екземпляр ViewController
func NewViewController(db *gorm.DB) *ViewController {
	return &ViewController{db: db}
}

// viewData — вибрані в межах області доступу дані для побудови таблиці
type viewData struct {
	rows   []services.DisplayRow
	fields []models.FieldDefinition
	spec   services.SortSpec
	search string
}

// loadView вибирає дані, будує рядки відображення і проганяє їх крізь
// конвеєр таблиці згідно параметрів запиту
func (vc *ViewController) loadView(c *fiber.Ctx, user *models.User) (*viewData, error) {
	scope := services.UserScope(user)

	// Явний стан відсутності доступу замість порожнього екрана
	if scope.Kind == services.ScopeNone {
		return nil, fiber.NewError(403, "Немає доступу: зверніться до адміністратора за призначенням ролі")
	}

	unitID, _ := strconv.ParseUint(c.Query("unit_id"), 10, 32)
	sectionID, _ := strconv.ParseUint(c.Query("section_id"), 10, 32)

	// Звуження поза областю доступу відхиляється до звернення до бази
	if unitID != 0 && !services.CoversEntity(scope, uint(unitID), 0) && scope.Kind != services.ScopeSection {
		return nil, fiber.NewError(403, "Немає доступу до цього підрозділу")
	}
	if sectionID != 0 && scope.Kind == services.ScopeSection && uint(sectionID) != scope.SectionID {
		return nil, fiber.NewError(403, "Немає доступу до цього відділу")
	}

	config, err := services.LoadFieldConfig(vc.db)
	if err != nil {
		return nil, err
	}
	fields := services.EnsureEssentialFields(services.SortedFields(config.Fields), user.IsAdmin())

	var units []models.Unit
	if err := services.ScopeUnits(vc.db, scope).Scopes(narrowUnits(unitID)).Find(&units).Error; err != nil {
		return nil, err
	}

	var sections []models.Section
	if err := services.ScopeSections(vc.db, scope).Scopes(narrowSections(unitID, sectionID)).Find(&sections).Error; err != nil {
		return nil, err
	}

	itemsQ := services.ScopeItems(vc.db, scope)
	if unitID != 0 {
		itemsQ = itemsQ.Where("unit_id = ?", unitID)
	}
	if sectionID != 0 {
		itemsQ = itemsQ.Where("section_id = ?", sectionID)
	}
	var items []models.Item
	if err := itemsQ.Find(&items).Error; err != nil {
		return nil, err
	}

	return &viewData{
		rows:   services.BuildRows(units, sections, items, fields),
		fields: fields,
		search: c.Query("search"),
		spec: services.SortSpec{
			Field: c.Query("sort_field"),
			Dir:   c.Query("sort_dir"),
		},
	}, nil
}

// narrowUnits звужує вибірку підрозділів за параметром запиту
func narrowUnits(unitID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if unitID != 0 {
			return db.Where("id = ?", unitID)
		}
		return db
	}
}

// narrowSections звужує вибірку відділів за параметрами запиту
func narrowSections(unitID, sectionID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sectionID != 0 {
			return db.Where("id = ?", sectionID)
		}
		if unitID != 0 {
			return db.Where("unit_id = ?", unitID)
		}
		return db
	}
}

// GetView повертає готову до відображення послідовність рядків таблиці
// разом з лічильниками для статусного тексту
func (vc *ViewController) GetView(c *fiber.Ctx) error {
	user, err := currentUser(c, vc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	data, err := vc.loadView(c, user)
	if err != nil {
		return errorJSON(c, err)
	}

	result := services.Process(data.rows, data.search, data.spec)

	return c.JSON(fiber.Map{
		"error":          false,
		"rows":           result.Rows,
		"total_items":    result.TotalItems,
		"filtered_items": result.FilteredItems,
		"fields":         services.EnabledFields(data.fields),
	})
}

// Export віддає поточну відфільтровану й відсортовану таблицю
// книгою xlsx; ім'я файлу містить поточну дату
func (vc *ViewController) Export(c *fiber.Ctx) error {
	user, err := currentUser(c, vc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	data, err := vc.loadView(c, user)
	if err != nil {
		return errorJSON(c, err)
	}

	result := services.Process(data.rows, data.search, data.spec)

	file, err := services.ExportRows(result.Rows, data.fields)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	fileName := services.ExportFileName(time.Now())
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename*=UTF-8''"+url.PathEscape(fileName))

	return c.Send(buf.Bytes())
}
