package distlock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrNotAcquired indica que outro processo detém a trava
var ErrNotAcquired = errors.New("trava em uso por outro processo")

// DistLock é uma trava distribuída de uso único por goroutine
type DistLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Provider cria travas para chaves arbitrárias
type Provider interface {
	NewLock(key string, ttl time.Duration) DistLock
}

type provider struct {
	redisClient *redis.Client
	db          *sql.DB
}

// NewProvider usa Redis quando disponível e cai para advisory locks do Postgres caso contrário
func NewProvider(redisClient *redis.Client, db *sql.DB) Provider {
	return &provider{redisClient: redisClient, db: db}
}

func (p *provider) NewLock(key string, ttl time.Duration) DistLock {
	if p.redisClient != nil {
		return NewRedisLock(p.redisClient, key, ttl)
	}
	return NewPGAdvisoryLock(p.db, key)
}

// extender é implementado pelas travas com TTL, que precisam ser renovadas em execuções longas
type extender interface {
	Extend(ctx context.Context, ttl time.Duration) error
}

// WithLock executa fn apenas se a trava for obtida; caso contrário retorna ErrNotAcquired.
// Travas com TTL são renovadas a cada ttl/3 enquanto fn executa; se a renovação
// mostrar que a trava foi perdida, o contexto de fn é cancelado.
func WithLock(ctx context.Context, p Provider, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	lock := p.NewLock(key, ttl)

	acquired, err := lock.Acquire(ctx)
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%w: %s", ErrNotAcquired, key)
	}

	fnCtx, cancel := context.WithCancel(ctx)
	stop := keepAlive(fnCtx, cancel, lock, key, ttl)

	defer func() {
		stop()
		cancel()

		// a liberação usa um contexto próprio para não falhar quando ctx já foi cancelado
		releaseCtx, cancelRelease := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelRelease()
		if err := lock.Release(releaseCtx); err != nil {
			logrus.WithFields(logrus.Fields{
				"lock_key": key,
			}).WithError(err).Warn("Erro ao liberar trava distribuída")
		}
	}()

	return fn(fnCtx)
}

func keepAlive(ctx context.Context, cancel context.CancelFunc, lock DistLock, key string, ttl time.Duration) func() {
	ext, ok := lock.(extender)
	interval := ttl / 3
	if !ok || interval <= 0 {
		return func() {}
	}

	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := ext.Extend(ctx, ttl)
				if err == nil {
					continue
				}
				if errors.Is(err, ErrNotAcquired) {
					logrus.WithFields(logrus.Fields{
						"lock_key": key,
					}).Warn("Trava distribuída perdida durante a execução")
					cancel()
					return
				}
				logrus.WithFields(logrus.Fields{
					"lock_key": key,
				}).WithError(err).Warn("Erro ao renovar trava distribuída")
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

// PGAdvisoryLock usa pg_try_advisory_lock, que é associado à sessão.
// Uma conexão dedicada é mantida entre Acquire e Release.
type PGAdvisoryLock struct {
	db     *sql.DB
	conn   *sql.Conn
	lockID int64
}

func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &PGAdvisoryLock{
		db:     db,
		lockID: int64(h.Sum64()),
	}
}

func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("erro ao obter conexão para trava: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired); err != nil {
		_ = conn.Close()
		return false, err
	}
	if !acquired {
		_ = conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	if l.conn == nil {
		return nil
	}
	defer func() {
		_ = l.conn.Close()
		l.conn = nil
	}()

	_, err := l.conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}
