package todo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateItem is returned when a title matches an existing item.
	ErrDuplicateItem = errors.New("todo already exists")
	// ErrNotFound is returned when no item has the given identity.
	ErrNotFound = errors.New("todo not found")
	// ErrEmptyTitle is returned when a title is blank after trimming.
	ErrEmptyTitle = errors.New("todo title is empty")
)

// Item is a single checklist entry.
type Item struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Key returns the item's identity.
func (i Item) Key() string {
	return Normalize(i.Title)
}

// Normalize returns the identity of a title: trimmed and lowercased.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Clean returns the title as it is stored: trimmed, case kept.
func Clean(title string) string {
	return strings.TrimSpace(title)
}

// Store is an ordered checklist with title identity. The zero value is an
// empty store ready to use.
type Store struct {
	items []Item
}

// NewStore creates a store from items, dropping blank titles and later
// duplicates. It returns the titles that were dropped as duplicates.
func NewStore(items []Item) (*Store, []string) {
	s := &Store{}
	var dropped []string
	for _, it := range items {
		if err := s.add(it.Title, it.Done); err != nil {
			if errors.Is(err, ErrDuplicateItem) {
				dropped = append(dropped, it.Title)
			}
		}
	}
	return s, dropped
}

// Add appends an open item with the trimmed title.
func (s *Store) Add(title string) error {
	return s.add(title, false)
}

func (s *Store) add(title string, done bool) error {
	cleaned := Clean(title)
	if cleaned == "" {
		return ErrEmptyTitle
	}
	if s.index(cleaned) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateItem, cleaned)
	}
	s.items = append(s.items, Item{Title: cleaned, Done: done})
	return nil
}

// Toggle flips the done flag of the item and returns the new value.
func (s *Store) Toggle(identity string) (bool, error) {
	i := s.index(identity)
	if i < 0 {
		return false, fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(identity))
	}
	s.items[i].Done = !s.items[i].Done
	return s.items[i].Done, nil
}

// SetDone sets the done flag of the item.
func (s *Store) SetDone(identity string, done bool) error {
	i := s.index(identity)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(identity))
	}
	s.items[i].Done = done
	return nil
}

// Remove deletes the item. The store is unchanged if it is absent.
func (s *Store) Remove(identity string) error {
	i := s.index(identity)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, strings.TrimSpace(identity))
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// Get returns the item with the identity, or false if absent.
func (s *Store) Get(identity string) (Item, bool) {
	i := s.index(identity)
	if i < 0 {
		return Item{}, false
	}
	return s.items[i], true
}

// List returns a copy of the items in insertion order.
func (s *Store) List() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// Counts returns the number of open and done items.
func (s *Store) Counts() (open, done int) {
	for _, it := range s.items {
		if it.Done {
			done++
		} else {
			open++
		}
	}
	return open, done
}

func (s *Store) index(identity string) int {
	key := Normalize(identity)
	if key == "" {
		return -1
	}
	for i := range s.items {
		if s.items[i].Key() == key {
			return i
		}
	}
	return -1
}
