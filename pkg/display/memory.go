// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package display

import (
	"fmt"
	"sync"
)

// Memory is an in-process Surface. It keeps the current state of every
// element and notifies watchers of each change.
type Memory struct {
	mu       sync.RWMutex
	order    []string
	elements map[string]*Element
	notice   string
	watchers []func(Patch)
}

// NewMemory creates a surface exposing the layout's elements.
func NewMemory(layout Layout) *Memory {
	m := &Memory{
		elements: make(map[string]*Element, len(layout.IDs)),
	}

	hidden := make(map[string]bool, len(layout.Hidden))
	for _, id := range layout.Hidden {
		hidden[id] = true
	}

	for _, id := range layout.IDs {
		if _, exists := m.elements[id]; exists {
			continue
		}
		m.order = append(m.order, id)
		m.elements[id] = &Element{ID: id, Visible: !hidden[id]}
	}

	return m
}

// Watch registers fn to receive every patch applied to the surface.
// fn is called outside the surface lock.
func (m *Memory) Watch(fn func(Patch)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchers = append(m.watchers, fn)
}

// SetText implements Surface.
func (m *Memory) SetText(id, text string) error {
	m.mu.Lock()
	el, ok := m.elements[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	el.Text = text
	watchers := m.watchers
	m.mu.Unlock()

	notify(watchers, Patch{Type: PatchText, ID: id, Text: text})
	return nil
}

// SetList implements Surface. The element's previous items are replaced.
func (m *Memory) SetList(id string, items []string) error {
	cp := append([]string(nil), items...)

	m.mu.Lock()
	el, ok := m.elements[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	el.Items = cp
	watchers := m.watchers
	m.mu.Unlock()

	notify(watchers, Patch{Type: PatchList, ID: id, Items: cp})
	return nil
}

// Show implements Surface. Showing a visible element is a no-op.
func (m *Memory) Show(id string) error {
	m.mu.Lock()
	el, ok := m.elements[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	if el.Visible {
		m.mu.Unlock()
		return nil
	}
	el.Visible = true
	watchers := m.watchers
	m.mu.Unlock()

	notify(watchers, Patch{Type: PatchShow, ID: id})
	return nil
}

// Alert implements Surface.
func (m *Memory) Alert(message string) {
	m.mu.Lock()
	m.notice = message
	watchers := m.watchers
	m.mu.Unlock()

	notify(watchers, Patch{Type: PatchAlert, Text: message})
}

// Element returns a copy of the element with the given id.
func (m *Memory) Element(id string) (Element, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	el, ok := m.elements[id]
	if !ok {
		return Element{}, false
	}
	return copyElement(el), true
}

// Notice returns the last alert raised, if any.
func (m *Memory) Notice() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notice
}

// State returns a copy of every element in layout order.
func (m *Memory) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state := State{
		Elements: make([]Element, 0, len(m.order)),
		Notice:   m.notice,
	}
	for _, id := range m.order {
		state.Elements = append(state.Elements, copyElement(m.elements[id]))
	}
	return state
}

func copyElement(el *Element) Element {
	cp := *el
	cp.Items = append([]string(nil), el.Items...)
	return cp
}

func notify(watchers []func(Patch), p Patch) {
	for _, fn := range watchers {
		fn(p)
	}
}
