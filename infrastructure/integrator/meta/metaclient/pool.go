package metaclient

import (
	"sync"

	"github.com/vfg2006/traffic-report-api/internal/config"
	"github.com/vfg2006/traffic-report-api/pkg/httpretry"
)

// Pool reaproveita um cliente por conta durante uma execução.
// Todos os clientes usam o token da organização e o mesmo doer.
type Pool struct {
	cfg         config.Meta
	accessToken string
	doer        httpretry.HTTPDoer
	newClient   func(cfg config.Meta, accessToken string, doer httpretry.HTTPDoer) Client

	mu      sync.Mutex
	clients map[string]Client
}

func NewPool(cfg config.Meta, accessToken string, doer httpretry.HTTPDoer) *Pool {
	return &Pool{
		cfg:         cfg,
		accessToken: accessToken,
		doer:        doer,
		newClient:   NewClient,
		clients:     make(map[string]Client),
	}
}

func (p *Pool) ForAccount(accountID string) Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[accountID]; ok {
		return c
	}
	c := p.newClient(p.cfg, p.accessToken, p.doer)
	p.clients[accountID] = c
	return c
}

// Size retorna quantos clientes foram criados
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}
