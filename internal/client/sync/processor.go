// Package sync drains the write queue to the server in batches and applies
// the per-operation results back to the queue and the local cache.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	httpClient "github.com/iudanet/homekeeper/internal/client/api"
	"github.com/iudanet/homekeeper/internal/client/auth"
	"github.com/iudanet/homekeeper/internal/client/queue"
	"github.com/iudanet/homekeeper/internal/crdt"
	"github.com/iudanet/homekeeper/internal/models"
	"github.com/iudanet/homekeeper/pkg/api"
)

// State состояние обработчика синхронизации
type State string

const (
	StateIdle     State = "idle"     // очередь пуста или ждем следующего цикла
	StateDraining State = "draining" // читаем готовые записи
	StateBatching State = "batching" // собираем пакет и checkpoint
	StateSending  State = "sending"  // запрос отправлен
	StateApplying State = "applying" // применяем результат
	StateBackoff  State = "backoff"  // ждем перед повтором после ошибки
	StateStopped  State = "stopped"  // нужен повторный вход
)

// Config параметры обработчика
type Config struct {
	BatchSize   int           // максимум записей очереди в одном пакете
	MaxAttempts int           // после стольких неудач запись становится failed_permanent
	BackoffBase time.Duration // первая задержка после ошибки
	BackoffMax  time.Duration // верхняя граница задержки
	Interval    time.Duration // период цикла в Run
}

// DefaultConfig значения по умолчанию
var DefaultConfig = Config{
	BatchSize:   50,
	MaxAttempts: 5,
	BackoffBase: time.Second,
	BackoffMax:  5 * time.Minute,
	Interval:    30 * time.Second,
}

// SyncResult итог одного цикла синхронизации
type SyncResult struct {
	RequestID string // пустой, если отправлять было нечего
	Sent      int    // операций в запросе (после сжатия)
	Succeeded int    // применено сервером
	Resolved  int    // конфликтов разрешено в пользу сервера
	Requeued  int    // конфликтов, где локальная версия новее и отправлена заново
	Failed    int    // записей, помеченных failed_permanent
	Untouched int    // операций, не упомянутых в ответе
	Recovered bool   // пакет восстановлен из checkpoint
	Pulled    bool   // кэш обновлен с сервера
}

// Progress сообщает, изменил ли цикл очередь
func (r *SyncResult) Progress() bool {
	return r.Succeeded+r.Resolved+r.Requeued+r.Failed > 0
}

// Status сводка для UI
type Status struct {
	LastSyncedAt time.Time
	LastError    string
	State        State
	PendingCount int
	FailedCount  int
	AuthRequired bool
}

// Processor отправляет отложенные записи пакетами.
// Одновременно обрабатывается не более одного пакета.
type Processor struct {
	queue      WriteQueue
	cache      Cache
	client     httpClient.SyncClient
	creds      auth.CredentialProvider
	clock      *crdt.Clock
	logger     *slog.Logger
	now        func() time.Time
	newBackoff func() retry.Backoff
	backoff    retry.Backoff
	wake       chan struct{}

	backoffUntil time.Time
	lastErr      error
	state        State
	cfg          Config

	run sync.Mutex // один пакет за раз
	mu  sync.Mutex // защищает состояние
}

// NewProcessor creates sync processor
func NewProcessor(
	q WriteQueue,
	c Cache,
	client httpClient.SyncClient,
	creds auth.CredentialProvider,
	clock *crdt.Clock,
	cfg Config,
	logger *slog.Logger,
) *Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig.BatchSize
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultConfig.BackoffBase
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = cfg.BackoffBase
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig.Interval
	}

	p := &Processor{
		queue:  q,
		cache:  c,
		client: client,
		creds:  creds,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
		state:  StateIdle,
		wake:   make(chan struct{}, 1),
	}
	p.newBackoff = func() retry.Backoff {
		return retry.WithCappedDuration(p.cfg.BackoffMax, retry.NewExponential(p.cfg.BackoffBase))
	}
	p.backoff = p.newBackoff()
	return p
}

// Start повторно отправляет пакет, оставшийся после аварийного завершения.
// Используются те же requestId и operationId, поэтому сервер не применит
// операции дважды. Если checkpoint нет, записи в статусе sent
// возвращаются в pending.
func (p *Processor) Start(ctx context.Context) error {
	p.run.Lock()
	defer p.run.Unlock()

	b, err := p.recoverBatch(ctx)
	if err != nil {
		return err
	}
	if b == nil {
		if err := p.queue.ClearCheckpoint(ctx); err != nil {
			return fmt.Errorf("failed to reset in-flight writes: %w", err)
		}
		return nil
	}

	p.logger.Info("Re-driving interrupted sync batch",
		"request_id", b.requestID,
		"operations", len(b.sent))

	_, err = p.process(ctx, b)
	return err
}

// RunOnce выполняет один цикл: восстановление или отправка пакета,
// применение результата и, если очередь опустела, обновление кэша.
// Игнорирует задержку backoff, чтобы пользователь мог повторить вручную.
func (p *Processor) RunOnce(ctx context.Context) (*SyncResult, error) {
	p.run.Lock()
	defer p.run.Unlock()

	if p.State() == StateStopped {
		return nil, fmt.Errorf("%w: %w", ErrStopped, ErrAuthRequired)
	}
	// отмена действует только до того, как пакет взят в работу
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := p.recoverBatch(ctx)
	if err != nil {
		return nil, err
	}
	if b == nil {
		p.setState(StateDraining)
		b, err = p.nextBatch(ctx)
		if err != nil {
			p.setState(StateIdle)
			return nil, err
		}
	}

	result := &SyncResult{}
	if b != nil {
		result, err = p.process(ctx, b)
		if err != nil {
			return result, err
		}
	}

	if ctx.Err() != nil {
		// пакет применен, обновление кэша отложим до следующего цикла
		p.succeed()
		return result, nil
	}

	pending, err := p.queue.PendingCount(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to count pending writes: %w", err)
	}
	if pending == 0 {
		result.Pulled = p.pull(ctx)
	}

	if p.State() != StateStopped {
		p.succeed()
	}
	return result, nil
}

// Run выполняет циклы до отмены ctx.
// Следующий цикл начинается сразу, если в очереди остались записи,
// по Wake, по истечении backoff или раз в Config.Interval.
func (p *Processor) Run(ctx context.Context) error {
	if err := p.Start(ctx); err != nil {
		p.logger.Warn("Recovery of interrupted batch failed", "error", err)
	}

	for {
		result, err := p.RunOnce(ctx)
		switch {
		case errors.Is(err, ErrAuthRequired):
			p.logger.Warn("Sync stopped, sign in again")
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil
		case err != nil:
			p.logger.Warn("Sync cycle failed", "error", err)
		}

		wait := p.nextWait(result, err)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-p.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Wake будит Run: появились новые записи или восстановилась сеть
func (p *Processor) Wake() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// State возвращает текущее состояние
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ResetAuth снимает остановку после повторного входа
func (p *Processor) ResetAuth() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateStopped {
		p.state = StateIdle
		p.lastErr = nil
	}
}

// Status собирает сводку: счетчики очереди, время последней синхронизации
// (самое позднее по всем типам) и состояние обработчика.
func (p *Processor) Status(ctx context.Context) (*Status, error) {
	pending, err := p.queue.PendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending writes: %w", err)
	}
	failed, err := p.queue.Failed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed writes: %w", err)
	}

	st := &Status{
		PendingCount: pending,
		FailedCount:  len(failed),
	}

	for _, et := range models.EntityTypes {
		meta, err := p.cache.Metadata(ctx, et)
		if err != nil {
			return nil, err
		}
		if meta != nil && meta.LastSyncedAt.After(st.LastSyncedAt) {
			st.LastSyncedAt = meta.LastSyncedAt
		}
	}

	p.mu.Lock()
	st.State = p.state
	st.AuthRequired = p.state == StateStopped
	if p.lastErr != nil {
		st.LastError = p.lastErr.Error()
	}
	p.mu.Unlock()

	return st, nil
}

// batch пакет записей очереди
type batch struct {
	requestID string
	entries   []*models.QueuedWrite // все записи пакета, включая дубликаты по сущности
	sent      []*models.QueuedWrite // записи, попавшие в запрос
	recovered bool
}

func (p *Processor) recoverBatch(ctx context.Context) (*batch, error) {
	cp, err := p.queue.Checkpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	if cp == nil {
		return nil, nil
	}

	entries, err := p.queue.Entries(ctx, cp.BatchOperationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, p.queue.ClearCheckpoint(ctx)
	}

	sentIDs := make(map[string]bool, len(cp.OperationIDs))
	for _, id := range cp.OperationIDs {
		sentIDs[id] = true
	}
	var sent []*models.QueuedWrite
	for _, w := range entries {
		if sentIDs[w.OperationID] {
			sent = append(sent, w)
		}
	}
	if len(sent) == 0 {
		sent = queue.Compact(entries)
	}

	return &batch{
		requestID: cp.RequestID,
		entries:   entries,
		sent:      sent,
		recovered: true,
	}, nil
}

func (p *Processor) nextBatch(ctx context.Context) (*batch, error) {
	ready, err := p.queue.Ready(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read write queue: %w", err)
	}
	if len(ready) == 0 {
		return nil, nil
	}
	if len(ready) > p.cfg.BatchSize {
		ready = ready[:p.cfg.BatchSize]
	}

	return &batch{
		requestID: uuid.New().String(),
		entries:   ready,
		sent:      queue.Compact(ready),
	}, nil
}

// process отправляет пакет и применяет результат.
// После сохранения checkpoint отмена ctx не прерывает обработку.
func (p *Processor) process(ctx context.Context, b *batch) (*SyncResult, error) {
	result := &SyncResult{
		RequestID: b.requestID,
		Sent:      len(b.sent),
		Recovered: b.recovered,
	}

	token, err := p.creds.AccessToken(ctx)
	if err != nil {
		if isAuthFailure(err) {
			p.stop(err)
			return result, fmt.Errorf("%w: %w", ErrAuthRequired, err)
		}
		return result, fmt.Errorf("failed to get access token: %w", err)
	}

	p.setState(StateBatching)
	req := buildRequest(b)

	if !b.recovered {
		cp := &models.SyncCheckpoint{
			CreatedAt:         p.now(),
			RequestID:         b.requestID,
			OperationIDs:      operationIDs(b.sent),
			BatchOperationIDs: operationIDs(b.entries),
		}
		if err := p.queue.SaveCheckpoint(ctx, cp); err != nil {
			p.setState(StateIdle)
			return result, fmt.Errorf("failed to save checkpoint: %w", err)
		}
	}

	workCtx := context.WithoutCancel(ctx)

	p.setState(StateSending)
	p.logger.Info("Sending sync batch",
		"request_id", b.requestID,
		"operations", len(b.sent),
		"queued", len(b.entries))

	resp, err := p.client.Sync(workCtx, token, req)
	if err != nil {
		return result, p.handleSendError(workCtx, b, err)
	}

	p.setState(StateApplying)
	if err := p.apply(workCtx, b, resp, result); err != nil {
		return result, err
	}
	if err := p.queue.ClearCheckpoint(workCtx); err != nil {
		return result, fmt.Errorf("failed to clear checkpoint: %w", err)
	}

	p.logger.Info("Sync batch applied",
		"request_id", b.requestID,
		"status", resp.Status,
		"succeeded", result.Succeeded,
		"resolved", result.Resolved,
		"requeued", result.Requeued,
		"failed", result.Failed,
		"untouched", result.Untouched)

	if !result.Progress() {
		// сервер ничего не подтвердил, не повторяем сразу
		p.enterBackoff(fmt.Errorf("server made no progress on request %s", b.requestID))
	}
	return result, nil
}

// handleSendError классифицирует ошибку отправки.
// Сеть: записи возвращаются в очередь без увеличения счетчика попыток.
// Авторизация: обработка останавливается.
// Остальное: попытка засчитывается, исчерпавшие лимит записи
// становятся failed_permanent.
func (p *Processor) handleSendError(ctx context.Context, b *batch, sendErr error) error {
	if err := p.queue.ClearCheckpoint(ctx); err != nil {
		return errors.Join(sendErr, fmt.Errorf("failed to clear checkpoint: %w", err))
	}

	switch {
	case errors.Is(sendErr, httpClient.ErrNetwork):
		p.logger.Warn("Sync request failed, server unreachable",
			"request_id", b.requestID,
			"error", sendErr)
		p.enterBackoff(sendErr)
		return sendErr

	case isAuthFailure(sendErr):
		p.logger.Warn("Sync request rejected, credentials required",
			"request_id", b.requestID,
			"error", sendErr)
		p.stop(sendErr)
		return fmt.Errorf("%w: %w", ErrAuthRequired, sendErr)
	}

	exhausted, err := p.queue.RecordFailure(ctx, sendErr.Error(), p.cfg.MaxAttempts, operationIDs(b.entries)...)
	if err != nil {
		return errors.Join(sendErr, err)
	}
	if len(exhausted) > 0 {
		p.logger.Error("Writes exceeded retry limit",
			"request_id", b.requestID,
			"operations", len(exhausted),
			"error", sendErr)
	}
	p.logger.Warn("Sync request failed",
		"request_id", b.requestID,
		"error", sendErr)

	p.enterBackoff(sendErr)
	return sendErr
}

// pull обновляет кэш с сервера. Ошибки не прерывают цикл.
func (p *Processor) pull(ctx context.Context) bool {
	if err := p.cache.RefreshAll(ctx); err != nil {
		if isAuthFailure(err) {
			p.stop(err)
		}
		p.logger.Warn("Failed to refresh cache after sync", "error", err)
		return false
	}
	return true
}

func (p *Processor) nextWait(result *SyncResult, err error) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.state == StateStopped:
		return p.cfg.Interval
	case p.state == StateBackoff:
		if d := p.backoffUntil.Sub(p.now()); d > 0 {
			return d
		}
		return 0
	case err == nil && result != nil && result.Sent > 0 && result.Progress():
		// в очереди могут остаться записи за пределами пакета
		return 0
	default:
		return p.cfg.Interval
	}
}

func (p *Processor) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateStopped {
		p.state = s
	}
}

func (p *Processor) enterBackoff(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateStopped {
		return
	}
	delay, _ := p.backoff.Next()
	p.state = StateBackoff
	p.backoffUntil = p.now().Add(delay)
	p.lastErr = err
}

func (p *Processor) succeed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateBackoff {
		// цикл завершился, но ошибка осталась актуальной до следующего
		return
	}
	p.state = StateIdle
	p.lastErr = nil
	p.backoff = p.newBackoff()
}

func (p *Processor) stop(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateStopped
	p.lastErr = err
}

func isAuthFailure(err error) bool {
	return httpClient.IsAuthError(err) ||
		errors.Is(err, auth.ErrNotSignedIn) ||
		errors.Is(err, auth.ErrSessionExpired) ||
		errors.Is(err, auth.ErrInvalidToken)
}

func buildRequest(b *batch) *api.SyncRequest {
	req := &api.SyncRequest{
		RequestID:      b.requestID,
		PayloadVersion: api.PayloadVersion,
	}
	for _, w := range b.sent {
		data := w.Target.Payload.Clone()
		if data == nil {
			data = models.Record{}
		}
		data[models.FieldLocalID] = w.Target.LocalID
		if w.Target.ID != "" {
			data[models.FieldID] = w.Target.ID
		}
		req.Add(string(w.EntityType), api.SyncOperation{
			ClientTimestamp: w.ClientTimestamp,
			Data:            data,
			OperationID:     w.OperationID,
			LocalID:         w.Target.LocalID,
			ID:              w.Target.ID,
			Action:          string(w.Action),
		})
	}
	return req
}

func operationIDs(writes []*models.QueuedWrite) []string {
	ids := make([]string, 0, len(writes))
	for _, w := range writes {
		ids = append(ids, w.OperationID)
	}
	return ids
}
