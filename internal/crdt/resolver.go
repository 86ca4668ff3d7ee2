package crdt

import (
	"errors"
	"fmt"

	"github.com/iudanet/homekeeper/internal/models"
)

// ErrEmptyID возвращается MergeArrays, если функция getID вернула пустой ключ.
var ErrEmptyID = errors.New("entity id is empty")

// Side сторона, чья версия записи выиграла.
type Side int

const (
	SideLocal Side = iota
	SideRemote
)

func (s Side) String() string {
	if s == SideLocal {
		return "local"
	}
	return "remote"
}

// CompareTimestamps сравнивает две временные метки.
// Возвращает -1, если a новее b, 1 если b новее a, 0 если равны.
// Отсутствующая или некорректная метка считается самой старой.
func CompareTimestamps(a, b any) int {
	ta, okA := models.ParseTimestamp(a)
	tb, okB := models.ParseTimestamp(b)

	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	case ta.After(tb):
		return -1
	case ta.Before(tb):
		return 1
	default:
		return 0
	}
}

// DetermineWinner выбирает версию по алгоритму LWW на updatedAt.
// При равенстве меток выигрывает remote: сервер выступает
// детерминированным арбитром для всех устройств.
func DetermineWinner(local, remote models.Record) Side {
	if CompareTimestamps(local[models.FieldUpdatedAt], remote[models.FieldUpdatedAt]) < 0 {
		return SideLocal
	}
	return SideRemote
}

// MergeLWW возвращает выигравшую версию целиком (без смешивания полей)
// и добавляет к ней поля, которые есть только в local.
func MergeLWW(local, remote models.Record) models.Record {
	if local == nil {
		return remote.Clone()
	}
	if remote == nil {
		return local.Clone()
	}

	if DetermineWinner(local, remote) == SideLocal {
		return local.Clone()
	}
	return reattachLocalFields(remote, local)
}

// MergeWithTombstones объединяет две версии с учетом удаления.
// Удаление всегда выигрывает независимо от меток времени:
// запись не может «воскреснуть» из-за изменения, гонявшегося с удалением.
// Если удалены обе версии, возвращается nil.
func MergeWithTombstones(local, remote models.Record) models.Record {
	merged, _ := Resolve(local, remote)
	return merged
}

// Resolve работает как MergeWithTombstones и дополнительно сообщает,
// чья версия выиграла. Если удалены обе версии, результат nil, а
// выигравшей считается remote.
func Resolve(local, remote models.Record) (models.Record, Side) {
	if local == nil {
		return remote.Clone(), SideRemote
	}
	if remote == nil {
		return local.Clone(), SideLocal
	}

	localDeleted := models.IsDeleted(local)
	remoteDeleted := models.IsDeleted(remote)

	switch {
	case localDeleted && remoteDeleted:
		return nil, SideRemote
	case localDeleted:
		return local.Clone(), SideLocal
	case remoteDeleted:
		return reattachLocalFields(remote, local), SideRemote
	}

	side := DetermineWinner(local, remote)
	if side == SideLocal {
		return local.Clone(), SideLocal
	}
	return reattachLocalFields(remote, local), SideRemote
}

// MergeArrays объединяет две коллекции за O(n+m).
// Записи, которые есть только с одной стороны, сохраняются, если не удалены.
// Записи с обеих сторон объединяются через MergeWithTombstones.
// Удаленные записи в результат не попадают.
func MergeArrays(local, remote []models.Record, getID func(models.Record) string) ([]models.Record, error) {
	localByID, localOrder, err := indexByID(local, getID)
	if err != nil {
		return nil, fmt.Errorf("local: %w", err)
	}
	remoteByID, remoteOrder, err := indexByID(remote, getID)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}

	result := make([]models.Record, 0, len(localOrder)+len(remoteOrder))

	for _, id := range localOrder {
		l := localByID[id]
		r, ok := remoteByID[id]
		if !ok {
			if !models.IsDeleted(l) {
				result = append(result, l.Clone())
			}
			continue
		}

		merged := MergeWithTombstones(l, r)
		if merged != nil && !models.IsDeleted(merged) {
			result = append(result, merged)
		}
	}

	for _, id := range remoteOrder {
		if _, ok := localByID[id]; ok {
			continue
		}
		r := remoteByID[id]
		if !models.IsDeleted(r) {
			result = append(result, r.Clone())
		}
	}

	return result, nil
}

// ByID использует серверный id записи.
func ByID(r models.Record) string {
	return r.ID()
}

// ByKey использует серверный id, а при его отсутствии localId.
func ByKey(r models.Record) string {
	return r.Key()
}

// indexByID строит индекс записей. Повторы внутри одной коллекции
// схлопываются через MergeWithTombstones в порядке появления.
func indexByID(records []models.Record, getID func(models.Record) string) (map[string]models.Record, []string, error) {
	byID := make(map[string]models.Record, len(records))
	order := make([]string, 0, len(records))

	for i, r := range records {
		id := getID(r)
		if id == "" {
			return nil, nil, fmt.Errorf("%w: element %d", ErrEmptyID, i)
		}

		prev, ok := byID[id]
		if !ok {
			byID[id] = r
			order = append(order, id)
			continue
		}

		merged := MergeWithTombstones(prev, r)
		if merged == nil {
			// обе версии удалены, оставляем tombstone
			merged = r
		}
		byID[id] = merged
	}

	return byID, order, nil
}

func reattachLocalFields(winner, local models.Record) models.Record {
	merged := winner.Clone()
	for k, v := range local {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return merged
}
