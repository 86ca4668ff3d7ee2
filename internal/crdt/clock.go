package crdt

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock представляет монотонные часы устройства.
// Возвращает физическое время UTC с точностью до миллисекунды, но никогда
// не отдает метку меньше или равную предыдущей, поэтому два изменения
// в одну миллисекунду все равно упорядочены.
type Clock struct {
	last   time.Time        // последняя выданная метка
	now    func() time.Time // источник физического времени
	nodeID string           // уникальный идентификатор устройства
	mu     sync.Mutex
}

// NewClock создает часы с уникальным идентификатором устройства (UUID).
func NewClock() *Clock {
	return NewClockWithNodeID(uuid.New().String())
}

// NewClockWithNodeID создает часы с заданным идентификатором устройства.
// Используется для тестирования или восстановления состояния.
func NewClockWithNodeID(nodeID string) *Clock {
	return &Clock{
		nodeID: nodeID,
		now:    time.Now,
	}
}

// WithNow подменяет источник времени.
func (c *Clock) WithNow(now func() time.Time) *Clock {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = now
	return c
}

// Tick возвращает новую метку для локального события.
func (c *Clock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := c.now().UTC().Truncate(time.Millisecond)
	if !ts.After(c.last) {
		ts = c.last.Add(time.Millisecond)
	}
	c.last = ts
	return ts
}

// Update учитывает метку, полученную от сервера или другого устройства,
// чтобы следующие локальные изменения были новее нее.
func (c *Clock) Update(remote time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	remote = remote.UTC().Truncate(time.Millisecond)
	if remote.After(c.last) {
		c.last = remote
	}
	return c.last
}

// GetTimestamp возвращает последнюю выданную метку без ее изменения.
func (c *Clock) GetTimestamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}

// GetNodeID возвращает идентификатор устройства.
func (c *Clock) GetNodeID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.nodeID
}
