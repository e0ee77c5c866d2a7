// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"sync"

	"github.com/ava-labs/avalanchego/utils/set"
)

// Connections tracks a group of clients, such as the subscribers of a topic.
// It is safe for concurrent use.
type Connections struct {
	lock  sync.RWMutex
	conns set.Set[*Connection]
}

func NewConnections() *Connections {
	return &Connections{}
}

// List returns a snapshot of the group.
func (c *Connections) List() []*Connection {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.List()
}

func (c *Connections) Has(conn *Connection) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Contains(conn)
}

// Add reports false if [conn] was already a member.
func (c *Connections) Add(conn *Connection) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.conns.Contains(conn) {
		return false
	}
	c.conns.Add(conn)
	return true
}

func (c *Connections) Remove(conns ...*Connection) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.conns.Remove(conns...)
}

func (c *Connections) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.conns.Len()
}
