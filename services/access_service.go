package services

import (
	"sklad-backend/models"

	"gorm.io/gorm"
)

// ScopeKind визначає вид області доступу
type ScopeKind string

const (
	ScopeAll     ScopeKind = "all"
	ScopeUnit    ScopeKind = "unit"
	ScopeSection ScopeKind = "section"
	ScopeNone    ScopeKind = "none"
)

// Scope описує область даних, видиму користувачеві. Це єдине джерело
// істини для побудови фільтрів запитів і перевірок прав на зміни.
type Scope struct {
	Kind      ScopeKind `json:"kind"`
	UnitID    uint      `json:"unit_id,omitempty"`
	SectionID uint      `json:"section_id,omitempty"`
}

// DeriveScope обчислює область доступу з ролі та призначення користувача.
// Чиста функція без побічних ефектів, використовується всіма споживачами.
func DeriveScope(role string, assignedUnitID, assignedSectionID uint) Scope {
	if role == models.RoleAdmin {
		return Scope{Kind: ScopeAll}
	}
	if role == models.RoleUnitStorekeeper && assignedUnitID != 0 {
		return Scope{Kind: ScopeUnit, UnitID: assignedUnitID}
	}
	if role == models.RoleSectionStorekeeper && assignedSectionID != 0 {
		return Scope{Kind: ScopeSection, SectionID: assignedSectionID}
	}
	return Scope{Kind: ScopeNone}
}

// UserScope обчислює область доступу для профілю користувача
func UserScope(user *models.User) Scope {
	return DeriveScope(user.Role, user.AssignedUnitID, user.AssignedSectionID)
}

// CanMutate перевіряє, чи дозволена зміна в контексті підрозділу/відділу.
// Право надається лише адміністратору, комірнику підрозділу для свого
// підрозділу або комірнику відділу для свого відділу.
func CanMutate(scope Scope, targetUnitID, targetSectionID uint) bool {
	switch scope.Kind {
	case ScopeAll:
		return true
	case ScopeUnit:
		return targetUnitID == scope.UnitID
	case ScopeSection:
		return targetSectionID != 0 && targetSectionID == scope.SectionID
	}
	return false
}

// CoversEntity перевіряє, чи покриває область доступу сутність,
// прив'язану до вказаного підрозділу/відділу. Використовується хабом
// для фільтрації розсилки змін.
func CoversEntity(scope Scope, unitID, sectionID uint) bool {
	switch scope.Kind {
	case ScopeAll:
		return true
	case ScopeUnit:
		return unitID == scope.UnitID
	case ScopeSection:
		return sectionID == scope.SectionID
	}
	return false
}

// ScopeUnits застосовує фільтр області доступу до запиту підрозділів
func ScopeUnits(db *gorm.DB, scope Scope) *gorm.DB {
	q := db.Model(&models.Unit{}).Order("created_at asc")
	switch scope.Kind {
	case ScopeAll:
		return q
	case ScopeUnit:
		return q.Where("id = ?", scope.UnitID)
	case ScopeSection:
		// Комірник відділу бачить лише батьківський підрозділ
		return q.Where("id IN (?)", db.Model(&models.Section{}).Select("unit_id").Where("id = ?", scope.SectionID))
	}
	return q.Where("1 = 0")
}

// ScopeSections застосовує фільтр області доступу до запиту відділів
func ScopeSections(db *gorm.DB, scope Scope) *gorm.DB {
	q := db.Model(&models.Section{}).Order("created_at asc")
	switch scope.Kind {
	case ScopeAll:
		return q
	case ScopeUnit:
		return q.Where("unit_id = ?", scope.UnitID)
	case ScopeSection:
		return q.Where("id = ?", scope.SectionID)
	}
	return q.Where("1 = 0")
}

// ScopeItems застосовує фільтр області доступу до запиту записів
func ScopeItems(db *gorm.DB, scope Scope) *gorm.DB {
	q := db.Model(&models.Item{}).Order("name asc")
	switch scope.Kind {
	case ScopeAll:
		return q
	case ScopeUnit:
		return q.Where("unit_id = ?", scope.UnitID)
	case ScopeSection:
		return q.Where("section_id = ?", scope.SectionID)
	}
	return q.Where("1 = 0")
}
