// Package httpretry executa requisições HTTP com retentativa, backoff exponencial e jitter
package httpretry

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// HTTPDoer é satisfeito por *http.Client e por *RetryClient
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type RetryClient struct {
	client          HTTPDoer
	maxRetries      int
	baseDelay       time.Duration
	maxDelay        time.Duration
	retryRateLimits bool
	limiter         *semaphore.Weighted
}

type Option func(*RetryClient)

// WithDelays altera o atraso base e o teto do backoff
func WithDelays(base, max time.Duration) Option {
	return func(rc *RetryClient) {
		rc.baseDelay = base
		rc.maxDelay = max
	}
}

// WithoutRateLimitRetry devolve respostas 429 ao chamador, que trata limite de uso no seu nível
func WithoutRateLimitRetry() Option {
	return func(rc *RetryClient) {
		rc.retryRateLimits = false
	}
}

// WithMaxConcurrency limita as requisições simultâneas feitas pelo cliente
func WithMaxConcurrency(n int) Option {
	return func(rc *RetryClient) {
		if n > 0 {
			rc.limiter = semaphore.NewWeighted(int64(n))
		}
	}
}

// NewRetryClient envolve client com retentativas. Sem client, usa http.Client com timeout de 30s.
// maxRetries conta as tentativas além da primeira.
func NewRetryClient(client HTTPDoer, maxRetries int, opts ...Option) *RetryClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	rc := &RetryClient{
		client:          client,
		maxRetries:      maxRetries,
		baseDelay:       1 * time.Second,
		maxDelay:        30 * time.Second,
		retryRateLimits: true,
	}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Do repete em status transitórios e erros de rede. Erros de cliente e cancelamento
// do contexto não são repetidos. Na última tentativa a resposta é devolvida como veio.
func (rc *RetryClient) Do(req *http.Request) (*http.Response, error) {
	if rc.limiter != nil {
		if err := rc.limiter.Acquire(req.Context(), 1); err != nil {
			return nil, err
		}
		defer rc.limiter.Release(1)
	}

	var lastErr error

	for attempt := 0; attempt <= rc.maxRetries; attempt++ {
		if req.Context().Err() != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, req.Context().Err()
		}

		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("httpretry: erro ao recriar corpo da requisição: %w", err)
				}
				req.Body = body
			}

			delay := rc.calculateDelay(attempt)
			logrus.WithFields(logrus.Fields{
				"attempt":     attempt,
				"max_retries": rc.maxRetries,
				"method":      req.Method,
				"host":        req.URL.Host,
				"path":        req.URL.Path,
				"delay":       delay.String(),
			}).Warn("Repetindo requisição HTTP")

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-req.Context().Done():
				timer.Stop()
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, req.Context().Err()
			}
		}

		resp, err := rc.client.Do(req)
		if err != nil {
			lastErr = err
			if req.Context().Err() != nil {
				return nil, err
			}
			continue
		}

		if !rc.isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if attempt == rc.maxRetries {
			return resp, nil
		}

		// drena o corpo para reaproveitar a conexão
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		lastErr = fmt.Errorf("httpretry: servidor retornou status %d", resp.StatusCode)
	}

	return nil, lastErr
}

// calculateDelay usa full jitter: aleatório entre 0 e min(maxDelay, baseDelay * 2^(attempt-1))
func (rc *RetryClient) calculateDelay(attempt int) time.Duration {
	expDelay := float64(rc.baseDelay) * math.Pow(2, float64(attempt-1))
	if expDelay > float64(rc.maxDelay) {
		expDelay = float64(rc.maxDelay)
	}

	jittered := time.Duration(rand.Float64() * expDelay)

	floor := 100 * time.Millisecond
	if rc.baseDelay < floor {
		floor = rc.baseDelay
	}
	if jittered < floor {
		jittered = floor
	}

	return jittered
}

func (rc *RetryClient) isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests:
		return rc.retryRateLimits
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
