package services

import (
	"context"
	"sync"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	lru "github.com/hashicorp/golang-lru/v2"
)

// GoalCache is the in-memory view of goals that edits are applied to before the store confirms them.
type GoalCache struct {
	mu    sync.Mutex
	items *lru.Cache[string, domain.Goal]
}

// NewGoalCache creates a cache holding at most size goals.
func NewGoalCache(size int) (*GoalCache, error) {
	items, err := lru.New[string, domain.Goal](size)
	if err != nil {
		return nil, err
	}
	return &GoalCache{items: items}, nil
}

// Get returns the cached goal if it exists and belongs to userID.
func (c *GoalCache) Get(userID, goalID string) (domain.Goal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.items.Get(goalID)
	if !ok || g.UserID != userID {
		return domain.Goal{}, false
	}
	return g, true
}

// Put stores goal, replacing any cached version.
func (c *GoalCache) Put(goal domain.Goal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Add(goal.GoalID, goal)
}

// Evict drops a goal from the cache.
func (c *GoalCache) Evict(goalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Remove(goalID)
}

// GoalEditCommand applies Next to the cache, then persists it. If the store rejects the
// edit the cache is put back to the snapshot taken before the edit.
type GoalEditCommand struct {
	Cache *GoalCache
	Store portsrepo.GoalWriter
	Next  domain.Goal
}

// Execute runs the edit. The returned error is the store's.
func (c *GoalEditCommand) Execute(ctx context.Context) error {
	c.Cache.mu.Lock()
	snapshot, hadSnapshot := c.Cache.items.Peek(c.Next.GoalID)
	c.Cache.items.Add(c.Next.GoalID, c.Next)
	c.Cache.mu.Unlock()

	if err := c.Store.UpdateGoal(ctx, c.Next); err != nil {
		c.rollback(snapshot, hadSnapshot)
		return err
	}
	return nil
}

func (c *GoalEditCommand) rollback(snapshot domain.Goal, hadSnapshot bool) {
	c.Cache.mu.Lock()
	defer c.Cache.mu.Unlock()
	if current, ok := c.Cache.items.Peek(c.Next.GoalID); ok && !current.LastUpdatedAt.Equal(c.Next.LastUpdatedAt) {
		// A later edit already replaced the tentative state.
		return
	}
	if hadSnapshot {
		c.Cache.items.Add(c.Next.GoalID, snapshot)
		return
	}
	c.Cache.items.Remove(c.Next.GoalID)
}
