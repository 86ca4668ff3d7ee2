package models

import "strings"

// EntityType тип синхронизируемой сущности.
type EntityType string

// EntityType константы для типов сущностей
const (
	EntityTypeList   EntityType = "list"
	EntityTypeRecipe EntityType = "recipe"
	EntityTypeChore  EntityType = "chore"
	EntityTypeItem   EntityType = "item"
)

// EntityTypes все типы сущностей в порядке отправки на сервер.
var EntityTypes = []EntityType{EntityTypeList, EntityTypeItem, EntityTypeRecipe, EntityTypeChore}

// ParseEntityType разбирает тип сущности, допускаются единственное и множественное число.
func ParseEntityType(s string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "list", "lists":
		return EntityTypeList, nil
	case "recipe", "recipes":
		return EntityTypeRecipe, nil
	case "chore", "chores":
		return EntityTypeChore, nil
	case "item", "items":
		return EntityTypeItem, nil
	default:
		return "", ErrUnknownEntityType
	}
}

// Valid проверяет, что тип сущности известен.
func (t EntityType) Valid() bool {
	_, err := ParseEntityType(string(t))
	return err == nil
}

// Plural возвращает имя коллекции в запросах синхронизации и URL.
func (t EntityType) Plural() string {
	return string(t) + "s"
}

// ShoppingList представляет список покупок.
type ShoppingList struct {
	EntityTimestamps
	ID      string `json:"id,omitempty"`      // ID серверный идентификатор
	LocalID string `json:"localId,omitempty"` // LocalID клиентский идентификатор
	Name    string `json:"name"`              // Name название списка
	Store   string `json:"store,omitempty"`   // Store магазин (опционально)
}

// ShoppingItem представляет позицию в списке покупок.
type ShoppingItem struct {
	EntityTimestamps
	ID       string `json:"id,omitempty"`
	LocalID  string `json:"localId,omitempty"`
	ListID   string `json:"listId"`             // ListID идентификатор списка
	Name     string `json:"name"`               // Name название товара
	Quantity string `json:"quantity,omitempty"` // Quantity количество в свободной форме ("2 л")
	Checked  bool   `json:"checked"`            // Checked куплено
}

// Recipe представляет рецепт.
type Recipe struct {
	EntityTimestamps
	ID          string   `json:"id,omitempty"`
	LocalID     string   `json:"localId,omitempty"`
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	Servings    int      `json:"servings,omitempty"`
}

// Chore представляет домашнее дело.
type Chore struct {
	EntityTimestamps
	ID         string `json:"id,omitempty"`
	LocalID    string `json:"localId,omitempty"`
	Name       string `json:"name"`
	AssignedTo string `json:"assignedTo,omitempty"` // AssignedTo участник домохозяйства
	Recurrence string `json:"recurrence,omitempty"` // Recurrence "daily", "weekly" и т.д.
	Done       bool   `json:"done"`
}
