// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package event carries per-mutation notifications from the engine to its
// subscribers. One Event is emitted after every elementary filesystem change
// succeeds.
package event

import (
	"context"
	"fmt"
	"sync"
)

// 🏷️ Kind is the type of change an Event describes
type Kind string

const (
	KindCreate Kind = "create"
	KindRemove Kind = "remove"
	KindMove   Kind = "move"
)

// 📣 Event records one elementary change
type Event struct {
	Kind      Kind   `json:"op"`
	Path      string `json:"path"`
	Target    string `json:"target,omitempty"` // move only
	IsDir     bool   `json:"isdir"`
	FromTrash bool   `json:"fromtrash,omitempty"`
	ToTrash   bool   `json:"totrash,omitempty"`
}

func (e Event) String() string {
	s := fmt.Sprintf("%s %s", e.Kind, e.Path)
	if e.Target != "" {
		s += " -> " + e.Target
	}
	if e.IsDir {
		s += " [dir]"
	}
	if e.ToTrash {
		s += " [to trash]"
	}
	if e.FromTrash {
		s += " [from trash]"
	}
	return s
}

// 🔔 Notifier receives events. Implementations must be safe for concurrent
// use when shared by an async runner.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event)

func (f NotifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// Discard drops every event.
var Discard Notifier = NotifierFunc(func(context.Context, Event) {})

// 📚 Recorder collects events in emission order
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset forgets all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// 🔀 Multi fans each event out to every non-nil notifier in order
func Multi(notifiers ...Notifier) Notifier {
	var list []Notifier
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return multi(list)
}

type multi []Notifier

func (m multi) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		n.Notify(ctx, ev)
	}
}
