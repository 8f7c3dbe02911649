package graphcycle

import (
	"fmt"
	"strings"
)

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// MissingPolicy controls behavior when a referenced node is missing.
type MissingPolicy uint8

const (
	MissingPolicyIgnore MissingPolicy = iota
	MissingPolicyError
)

// CycleError reports a cycle. Path starts and ends with the same key.
type CycleError[K comparable] struct {
	Path []K
}

// Key returns the node where the cycle was closed.
func (e CycleError[K]) Key() K {
	var zero K
	if len(e.Path) == 0 {
		return zero
	}
	return e.Path[len(e.Path)-1]
}

// Error returns the error string.
func (e CycleError[K]) Error() string {
	parts := make([]string, len(e.Path))
	for i, k := range e.Path {
		parts[i] = fmt.Sprint(k)
	}
	return "cycle detected: " + strings.Join(parts, " -> ")
}

// MissingError reports a missing referenced node. From is the zero value
// when a start node is missing.
type MissingError[K comparable] struct {
	From K
	Key  K
}

// Error returns the error string.
func (e MissingError[K]) Error() string {
	return fmt.Sprintf("missing node %v", e.Key)
}

// Config configures generic cycle detection traversal.
type Config[K comparable] struct {
	Exists  func(K) bool
	Next    func(K) ([]K, error)
	Starts  []K
	Missing MissingPolicy
}

type frame[K comparable] struct {
	key  K
	next []K
	pos  int
}

// Detect walks directed edges from Starts depth-first and reports the first
// cycle or traversal error. Nodes are visited at most once across starts.
func Detect[K comparable](cfg Config[K]) error {
	if cfg.Next == nil {
		return fmt.Errorf("cycle detect: next function is nil")
	}
	states := make(map[K]visitState, len(cfg.Starts))
	var stack []frame[K]

	enter := func(key, from K) error {
		switch states[key] {
		case stateVisiting:
			return CycleError[K]{Path: cyclePath(stack, key)}
		case stateDone:
			return nil
		}
		if cfg.Exists != nil && !cfg.Exists(key) {
			if cfg.Missing == MissingPolicyIgnore {
				return nil
			}
			return MissingError[K]{From: from, Key: key}
		}
		next, err := cfg.Next(key)
		if err != nil {
			return err
		}
		states[key] = stateVisiting
		stack = append(stack, frame[K]{key: key, next: next})
		return nil
	}

	var zero K
	for _, start := range cfg.Starts {
		if err := enter(start, zero); err != nil {
			return err
		}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.pos == len(top.next) {
				states[top.key] = stateDone
				stack = stack[:len(stack)-1]
				continue
			}
			key, next := top.key, top.next[top.pos]
			top.pos++
			if err := enter(next, key); err != nil {
				return err
			}
		}
	}
	return nil
}

func cyclePath[K comparable](stack []frame[K], key K) []K {
	start := len(stack) - 1
	for start > 0 && stack[start].key != key {
		start--
	}
	path := make([]K, 0, len(stack)-start+1)
	for _, f := range stack[start:] {
		path = append(path, f.key)
	}
	return append(path, key)
}
