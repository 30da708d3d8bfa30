package scoreclient

import (
	"context"
	"time"
)

// LeaderboardHandler receives each fetched leaderboard. A fetch error is
// delivered with a nil leaderboard.
type LeaderboardHandler func(lb *Leaderboard, err error)

// Poller fetches the public leaderboard at a fixed interval, for wallboard
// style displays that want fresh standings without a websocket.
type Poller struct {
	client   *Client
	interval time.Duration
	params   LeaderboardParams
	handler  LeaderboardHandler
}

// NewPoller creates a poller. Intervals below one second are raised to one
// second to keep a misconfigured display from hammering the API.
func NewPoller(client *Client, interval time.Duration, params LeaderboardParams, handler LeaderboardHandler) *Poller {
	if interval < time.Second {
		interval = time.Second
	}
	return &Poller{
		client:   client,
		interval: interval,
		params:   params,
		handler:  handler,
	}
}

// Run fetches immediately, then on every interval tick, until ctx is
// cancelled. It always returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	lb, err := p.client.Leaderboard(ctx, p.params)
	if err != nil {
		p.handler(nil, err)
		return
	}
	p.handler(lb, nil)
}
