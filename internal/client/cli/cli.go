// Package cli реализует команды клиента homekeeper.
package cli

import (
	"context"
	"time"

	"github.com/iudanet/homekeeper/internal/client/auth"
	"github.com/iudanet/homekeeper/internal/client/data"
	"github.com/iudanet/homekeeper/internal/client/iocli"
	"github.com/iudanet/homekeeper/internal/client/queue"
	"github.com/iudanet/homekeeper/internal/client/sync"
	"github.com/iudanet/homekeeper/internal/models"
)

//go:generate moq -out session_mock.go . SessionManager
//go:generate moq -out syncer_mock.go . Syncer
//go:generate moq -out queue_mock.go . QueueManager

// SessionManager управляет сохраненной сессией
type SessionManager interface {
	Login(ctx context.Context, token string) (*auth.Session, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*auth.Session, error)
}

// Syncer обработчик синхронизации
type Syncer interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) (*sync.SyncResult, error)
	Run(ctx context.Context) error
	Status(ctx context.Context) (*sync.Status, error)
	ResetAuth()
}

// QueueManager просмотр и ручной повтор записей очереди
type QueueManager interface {
	All(ctx context.Context) ([]*models.QueuedWrite, error)
	Retry(ctx context.Context, operationIDs ...string) (int, error)
	Quarantined(ctx context.Context) ([]queue.QuarantinedEntry, error)
}

// Cli выполняет команды поверх клиентских сервисов
type Cli struct {
	io      iocli.IO
	session SessionManager
	syncer  Syncer
	queue   QueueManager
	data    data.Service
	now     func() time.Time
}

// New creates CLI
func New(io iocli.IO, session SessionManager, syncer Syncer, q QueueManager, dataService data.Service) *Cli {
	return &Cli{
		io:      io,
		session: session,
		syncer:  syncer,
		queue:   q,
		data:    dataService,
		now:     time.Now,
	}
}

// formatTime печатает момент времени или "never"
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}
