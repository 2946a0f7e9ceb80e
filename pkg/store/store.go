// Package store provides in-memory storage for evaluation history.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lemonberrylabs/calc/pkg/calc"
)

// DefaultHistoryLimit is the number of evaluations kept when no limit is set.
const DefaultHistoryLimit = 1000

// EvaluationState represents the outcome of an evaluation.
type EvaluationState string

const (
	EvaluationSucceeded EvaluationState = "SUCCEEDED"
	EvaluationFailed    EvaluationState = "FAILED"
)

// Evaluation is one recorded expression and its outcome.
type Evaluation struct {
	ID         string
	Expression string
	Mode       string
	State      EvaluationState
	Result     string
	Value      float64
	Error      *EvaluationError
	CreateTime time.Time

	seq int64
}

// EvaluationError describes why an evaluation failed.
type EvaluationError struct {
	Kind    string
	Message string
}

// ErrNotFound is returned for unknown evaluation IDs.
var ErrNotFound = errors.New("evaluation not found")

// Store is a thread-safe in-memory history of evaluations. When the history
// limit is reached the oldest record is evicted.
type Store struct {
	mu          sync.RWMutex
	evaluations map[string]*Evaluation
	limit       int

	// Insertion counter; orders records created within the same clock tick.
	seq int64
}

// New creates an empty store holding at most limit evaluations.
// A limit <= 0 means DefaultHistoryLimit.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Store{
		evaluations: make(map[string]*Evaluation),
		limit:       limit,
	}
}

// Evaluate runs expression through the evaluator and records the outcome.
// Expressions longer than calc.MaxInputSize fail with InputTooLarge, the same
// limit the command-line tool applies to stdin.
func (s *Store) Evaluate(expression string, opts calc.Options) *Evaluation {
	if len(expression) > calc.MaxInputSize {
		return s.Fail(expression, opts, calc.NewInputTooLargeError())
	}
	res, err := calc.Evaluate(expression, opts)
	if err != nil {
		return s.Fail(expression, opts, err)
	}
	formatted, err := res.Format()
	if err != nil {
		return s.Fail(expression, opts, err)
	}
	return s.Complete(expression, opts, res, formatted)
}

// Complete records a successful evaluation.
func (s *Store) Complete(expression string, opts calc.Options, res calc.Result, formatted string) *Evaluation {
	return s.add(&Evaluation{
		Expression: expression,
		Mode:       opts.ModeName(),
		State:      EvaluationSucceeded,
		Result:     formatted,
		Value:      res.Value,
	})
}

// Fail records a failed evaluation.
func (s *Store) Fail(expression string, opts calc.Options, err error) *Evaluation {
	return s.add(&Evaluation{
		Expression: expression,
		Mode:       opts.ModeName(),
		State:      EvaluationFailed,
		Error: &EvaluationError{
			Kind:    string(calc.KindOf(err)),
			Message: err.Error(),
		},
	})
}

func (s *Store) add(ev *Evaluation) *Evaluation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	ev.ID = uuid.NewString()
	ev.CreateTime = time.Now()
	ev.seq = s.seq
	s.evaluations[ev.ID] = ev

	for len(s.evaluations) > s.limit {
		s.evictOldest()
	}
	return ev
}

// evictOldest drops the record with the lowest sequence. Caller holds mu.
func (s *Store) evictOldest() {
	var oldest *Evaluation
	for _, ev := range s.evaluations {
		if oldest == nil || ev.seq < oldest.seq {
			oldest = ev
		}
	}
	if oldest != nil {
		delete(s.evaluations, oldest.ID)
	}
}

// Get retrieves an evaluation by ID.
func (s *Store) Get(id string) (*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("evaluation '%s': %w", id, ErrNotFound)
	}
	return ev, nil
}

// List returns all evaluations, newest first.
func (s *Store) List() []*Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Evaluation, 0, len(s.evaluations))
	for _, ev := range s.evaluations {
		result = append(result, ev)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].seq > result[j].seq
	})
	return result
}

// Delete removes an evaluation.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.evaluations[id]; !ok {
		return fmt.Errorf("evaluation '%s': %w", id, ErrNotFound)
	}
	delete(s.evaluations, id)
	return nil
}

// Counts returns how many stored evaluations succeeded and failed.
func (s *Store) Counts() (succeeded, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ev := range s.evaluations {
		switch ev.State {
		case EvaluationSucceeded:
			succeeded++
		case EvaluationFailed:
			failed++
		}
	}
	return succeeded, failed
}
