// Package board keeps an in-memory view of the team collection current.
// One long-lived goroutine owns the snapshot and feeds it from a mongo
// change stream; every other part of the service only ever reads.
package board

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

type TeamSource interface {
	ListTeams() ([]schema.Team, error)
	WatchTeams(ctx context.Context) (*mongo.ChangeStream, error)
}

type Board struct {
	source TeamSource

	mu          sync.RWMutex
	teams       []schema.Team
	subscribers map[int]chan struct{}
	nextSub     int
}

func New(source TeamSource) *Board {
	return &Board{
		source:      source,
		subscribers: map[int]chan struct{}{},
	}
}

// Teams returns the current snapshot. The returned slice is a copy; the
// caller may keep it across refreshes.
func (b *Board) Teams() []schema.Team {
	b.mu.RLock()
	defer b.mu.RUnlock()

	teams := make([]schema.Team, len(b.teams))
	copy(teams, b.teams)
	return teams
}

// Refresh re-lists the collection and wakes subscribers.
func (b *Board) Refresh() error {
	teams, err := b.source.ListTeams()
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.teams = teams
	for _, ch := range b.subscribers {
		select {
		case ch <- struct{}{}:
		default: // subscriber already has a pending wakeup
		}
	}
	b.mu.Unlock()

	return nil
}

// Subscribe registers for snapshot-change wakeups. The returned cancel
// func must be called when the consuming view goes away.
func (b *Board) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextSub
	b.nextSub++
	ch := make(chan struct{}, 1)
	b.subscribers[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// Run opens the change stream and keeps the snapshot current until ctx is
// cancelled. Events are coalesced into full re-lists; the stream is not
// reopened on failure.
func (b *Board) Run(ctx context.Context) error {
	cs, err := b.source.WatchTeams(ctx)
	if err != nil {
		return err
	}
	defer cs.Close(context.Background())

	if err := b.Refresh(); err != nil {
		log.WithField("prefix", "board").WithError(err).Error("fail to load initial team snapshot")
	}

	for cs.Next(ctx) {
		if err := b.Refresh(); err != nil {
			log.WithField("prefix", "board").WithError(err).Error("fail to refresh team snapshot")
		}
	}

	if err := cs.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
