package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Имена полей, общие для всех синхронизируемых записей.
const (
	FieldID        = "id"
	FieldLocalID   = "localId"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldDeletedAt = "deletedAt"
)

// EntityTimestamps содержит временные метки, которые есть у каждой
// синхронизируемой записи. Наличие DeletedAt означает tombstone.
type EntityTimestamps struct {
	CreatedAt time.Time  `json:"createdAt"`           // CreatedAt время создания записи
	UpdatedAt time.Time  `json:"updatedAt"`           // UpdatedAt время последнего изменения (LWW)
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // DeletedAt время удаления (tombstone)
}

// Validate проверяет инвариант живой записи: updatedAt >= createdAt.
func (t EntityTimestamps) Validate() error {
	if t.CreatedAt.IsZero() || t.UpdatedAt.IsZero() {
		return ErrMissingTimestamp
	}
	if t.DeletedAt == nil && t.UpdatedAt.Before(t.CreatedAt) {
		return ErrUpdatedBeforeCreated
	}
	return nil
}

// Touch выставляет updatedAt (и createdAt для новой записи).
func (t *EntityTimestamps) Touch(now time.Time) {
	now = normalize(now)
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// MarkDeleted превращает запись в tombstone.
func (t *EntityTimestamps) MarkDeleted(now time.Time) {
	now = normalize(now)
	t.UpdatedAt = now
	t.DeletedAt = &now
}

// IsDeleted возвращает true, если у записи установлен deletedAt.
// Значение не обязано парситься: tombstone определяется наличием поля.
func IsDeleted(r Record) bool {
	v, ok := r[FieldDeletedAt]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// timestampLayouts допустимые строковые форматы временных меток.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseTimestamp разбирает временную метку записи.
// Поддерживаются ISO-8601 строки, time.Time и числа (epoch milliseconds).
// Некорректное значение возвращает ok == false и никогда не паникует,
// поэтому повреждённые данные ведут себя как отсутствующая метка.
// Результат приведён к UTC с точностью до миллисекунды.
func ParseTimestamp(v any) (time.Time, bool) {
	switch ts := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if ts.IsZero() {
			return time.Time{}, false
		}
		return normalize(ts), true
	case *time.Time:
		if ts == nil {
			return time.Time{}, false
		}
		return ParseTimestamp(*ts)
	case string:
		s := strings.TrimSpace(ts)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return normalize(t), true
			}
		}
		return time.Time{}, false
	case float64:
		return fromMillis(int64(ts))
	case int64:
		return fromMillis(ts)
	case int:
		return fromMillis(int64(ts))
	case json.Number:
		ms, err := ts.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return fromMillis(ms)
	default:
		return time.Time{}, false
	}
}

// FormatTimestamp возвращает каноническое строковое представление метки.
func FormatTimestamp(t time.Time) string {
	return normalize(t).Format(CanonicalTimestampLayout)
}

// CanonicalTimestampLayout формат, в котором метки хранятся в кэше.
const CanonicalTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func fromMillis(ms int64) (time.Time, bool) {
	if ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).UTC(), true
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
