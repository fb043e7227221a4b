package usecase

import "sync"

// WeekMutex serializes write paths that race on the same week, such as a
// manual team assignment landing while a simulation fills the board.
type WeekMutex struct {
	mu    sync.Mutex
	weeks map[int]*sync.Mutex
}

func NewWeekMutex() *WeekMutex {
	return &WeekMutex{weeks: make(map[int]*sync.Mutex)}
}

// Lock acquires the mutex for week and returns the matching unlock func.
func (w *WeekMutex) Lock(week int) func() {
	w.mu.Lock()
	m, ok := w.weeks[week]
	if !ok {
		m = &sync.Mutex{}
		w.weeks[week] = m
	}
	w.mu.Unlock()

	m.Lock()
	return m.Unlock
}
