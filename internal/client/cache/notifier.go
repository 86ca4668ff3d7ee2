package cache

import (
	"sync"

	"github.com/iudanet/homekeeper/internal/models"
)

// ChangeEvent уведомление об изменении кэша одного типа
type ChangeEvent struct {
	EntityType models.EntityType
	Reason     string
}

// Причины изменения кэша
const (
	ReasonReplace    = "replace"
	ReasonUpsert     = "upsert"
	ReasonRemove     = "remove"
	ReasonInvalidate = "invalidate"
)

// Notifier внутрипроцессный pub/sub по типу сущности.
// Отправка не блокирует: если подписчик не успел прочитать прошлое
// событие, новое объединяется с ним.
type Notifier struct {
	subs map[models.EntityType]map[int]chan ChangeEvent
	next int
	mu   sync.Mutex
}

// NewNotifier creates empty notifier
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[models.EntityType]map[int]chan ChangeEvent)}
}

// Subscribe подписывает на изменения типа сущности.
// Возвращаемая функция отменяет подписку и закрывает канал.
func (n *Notifier) Subscribe(entityType models.EntityType) (<-chan ChangeEvent, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++

	ch := make(chan ChangeEvent, 1)
	if n.subs[entityType] == nil {
		n.subs[entityType] = make(map[int]chan ChangeEvent)
	}
	n.subs[entityType][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[entityType], id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish рассылает событие подписчикам типа
func (n *Notifier) Publish(event ChangeEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[event.EntityType] {
		select {
		case ch <- event:
		default:
		}
	}
}
