package models

import (
	"encoding/json"
	"time"
)

// CacheSchemaVersion текущая версия формата кэша.
// Версия 1 хранила временные метки в произвольном виде (строки или epoch ms).
const CacheSchemaVersion = 2

// VersionedCacheArray единица хранения кэша для одного типа сущностей.
type VersionedCacheArray struct {
	Entities []Record `json:"entities"`
	Version  int      `json:"version,omitempty"`
}

// CacheMetadata метаданные кэша для одного типа сущностей.
type CacheMetadata struct {
	LastSyncedAt time.Time `json:"lastSyncedAt"`
	Version      int       `json:"version"`
}

// Staleness состояние свежести кэша.
type Staleness string

const (
	StalenessMissing Staleness = "missing"
	StalenessFresh   Staleness = "fresh"
	StalenessStale   Staleness = "stale"
	StalenessExpired Staleness = "expired"
)

// ReadStatus результат чтения сырых данных кэша.
type ReadStatus string

const (
	ReadStatusOK            ReadStatus = "ok"
	ReadStatusMigrated      ReadStatus = "migrated"
	ReadStatusFutureVersion ReadStatus = "future_version"
	ReadStatusCorrupt       ReadStatus = "corrupt"
)

// DecodeCacheArray разбирает сохраненный массив кэша.
// Отсутствие version трактуется как версия 1. Также поддерживается
// самый старый формат: голый JSON-массив без обертки.
func DecodeCacheArray(data []byte) (*VersionedCacheArray, error) {
	var arr VersionedCacheArray
	if err := json.Unmarshal(data, &arr); err != nil {
		var bare []Record
		if bareErr := json.Unmarshal(data, &bare); bareErr != nil {
			return nil, err
		}
		arr.Entities = bare
	}
	if arr.Version == 0 {
		arr.Version = 1
	}
	return &arr, nil
}
