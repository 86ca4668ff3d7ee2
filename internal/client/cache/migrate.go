package cache

import (
	"github.com/iudanet/homekeeper/internal/models"
)

var timestampFields = []string{models.FieldCreatedAt, models.FieldUpdatedAt, models.FieldDeletedAt}

// migrate приводит массив версии 1 к текущей версии.
// Версия 1 могла хранить метки как epoch milliseconds или строки
// с произвольным смещением; в версии 2 это строки UTC.
// Возвращает true, если записи изменились.
func migrate(arr *models.VersionedCacheArray) bool {
	changed := false
	for _, r := range arr.Entities {
		for _, field := range timestampFields {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			ts, ok := models.ParseTimestamp(v)
			if !ok {
				// нераспознанную метку не трогаем: merge трактует ее как отсутствующую
				continue
			}
			canonical := models.FormatTimestamp(ts)
			if s, isString := v.(string); !isString || s != canonical {
				r[field] = canonical
				changed = true
			}
		}
	}
	arr.Version = models.CacheSchemaVersion
	return changed
}
