package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const probeTimeout = 2 * time.Second

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// Probe reports whether the MongoDB deployment answers a primary ping.
type Probe struct {
	client Pinger
}

func NewProbe(client Pinger) *Probe {
	return &Probe{client: client}
}

func (p *Probe) Connected(ctx context.Context) bool {
	if p == nil || p.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return p.client.Ping(ctx, readpref.Primary()) == nil
}
