package app

import (
	"errors"
	"slices"
	"sync"
)

var ErrAlreadyWaiting = errors.New("already waiting for an opponent")

// Lobby is the FIFO queue of players waiting for an opponent.
type Lobby struct {
	mu      sync.Mutex
	waiting []string
}

// Enqueue adds player and, once two are waiting, pops the oldest pair.
func (l *Lobby) Enqueue(player string) (a, b string, paired bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.waiting, player) {
		return "", "", false, ErrAlreadyWaiting
	}
	l.waiting = append(l.waiting, player)
	if len(l.waiting) < 2 {
		return "", "", false, nil
	}
	a, b = l.waiting[0], l.waiting[1]
	l.waiting = slices.Delete(l.waiting, 0, 2)
	return a, b, true, nil
}

// requeue puts a player back at the head of the queue.
func (l *Lobby) requeue(player string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !slices.Contains(l.waiting, player) {
		l.waiting = slices.Insert(l.waiting, 0, player)
	}
}

// Remove takes player out of the queue.
func (l *Lobby) Remove(player string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := slices.Index(l.waiting, player)
	if i < 0 {
		return false
	}
	l.waiting = slices.Delete(l.waiting, i, i+1)
	return true
}

func (l *Lobby) Waiting() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiting)
}
