package models

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Record представляет синхронизируемую запись в нетипизированном виде.
// В таком виде записи хранятся в кэше, передаются в очереди и
// объединяются при разрешении конфликтов.
type Record map[string]any

// ID возвращает серверный идентификатор записи (может быть пустым до первой синхронизации).
func (r Record) ID() string {
	return r.stringField(FieldID)
}

// LocalID возвращает клиентский идентификатор записи.
func (r Record) LocalID() string {
	return r.stringField(FieldLocalID)
}

// Key возвращает идентификатор для сопоставления записей:
// серверный id, а если его нет, то localId.
func (r Record) Key() string {
	if id := r.ID(); id != "" {
		return id
	}
	return r.LocalID()
}

// Clone создает поверхностную копию записи.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

func (r Record) stringField(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// ToRecord конвертирует типизированную модель в Record через JSON.
func ToRecord(v any) (Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return r, nil
}

// FromRecord заполняет типизированную модель из Record.
func FromRecord(r Record, v any) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return nil
}
