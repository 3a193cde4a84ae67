package postgres

import (
	"context"
	"time"
)

const probeTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe reports Postgres reachability for backend selection.
type Probe struct {
	db Pinger
}

func NewProbe(db Pinger) *Probe {
	return &Probe{db: db}
}

func (p *Probe) Connected(ctx context.Context) bool {
	if p == nil || p.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return p.db.Ping(ctx) == nil
}
