// Package membership maintains the ordered list of song identifiers stored on a
// playlist. Every function here is a pure transformation: inputs are never
// mutated and persisting the result is the caller's job.
package membership

import (
	"errors"
	"slices"
	"strconv"
	"strings"
)

// ErrSongNotInPlaylist is returned when a move or removal targets an id the
// list does not contain.
var ErrSongNotInPlaylist = errors.New("song does not exist in the playlist")

// ValidationError lists every candidate id that has no matching song.
type ValidationError struct {
	InvalidIDs []int64
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.InvalidIDs))
	for i, id := range e.InvalidIDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "Invalid song IDs: " + strings.Join(parts, ", ")
}

// List is an ordered sequence of song ids. Duplicates are allowed and the
// order is playback order. An occurrence count per id backs Contains so
// existence checks do not scan the slice.
type List struct {
	ids    []int64
	counts map[int64]int
}

// NewList copies ids into a new List.
func NewList(ids []int64) *List {
	l := &List{
		ids:    make([]int64, 0, len(ids)),
		counts: make(map[int64]int, len(ids)),
	}
	l.Append(ids...)
	return l
}

// IDs returns a copy of the ordered ids. The result is never nil.
func (l *List) IDs() []int64 {
	out := make([]int64, len(l.ids))
	copy(out, l.ids)
	return out
}

// Len returns the number of entries, duplicates included.
func (l *List) Len() int {
	return len(l.ids)
}

// Contains reports whether id occurs at least once.
func (l *List) Contains(id int64) bool {
	return l.counts[id] > 0
}

// Append adds ids to the end of the list.
func (l *List) Append(ids ...int64) {
	for _, id := range ids {
		l.ids = append(l.ids, id)
		l.counts[id]++
	}
}

// Remove drops the first occurrence of id. Later occurrences are kept.
func (l *List) Remove(id int64) error {
	idx, err := l.indexOf(id)
	if err != nil {
		return err
	}
	l.ids = slices.Delete(l.ids, idx, idx+1)
	l.counts[id]--
	if l.counts[id] == 0 {
		delete(l.counts, id)
	}
	return nil
}

// Move takes the first occurrence of id out of the list and re-inserts it at
// the 1-based position. Positions are not bounds checked: anything below 1
// lands at the front and anything past the end lands last.
func (l *List) Move(id int64, position int) error {
	idx, err := l.indexOf(id)
	if err != nil {
		return err
	}
	l.ids = slices.Delete(l.ids, idx, idx+1)

	// Clamp before subtracting so math.MinInt cannot wrap around.
	target := 0
	if position > 1 {
		target = min(position-1, len(l.ids))
	}
	l.ids = slices.Insert(l.ids, target, id)
	return nil
}

func (l *List) indexOf(id int64) (int, error) {
	if !l.Contains(id) {
		return -1, ErrSongNotInPlaylist
	}
	return slices.Index(l.ids, id), nil
}

// Validate checks that every candidate id is present in existing. On failure
// the returned *ValidationError carries all offending ids, each reported once
// in the order it first appears. On success candidate is returned as is.
func Validate(candidate []int64, existing map[int64]struct{}) ([]int64, error) {
	var invalid []int64
	seen := make(map[int64]struct{})
	for _, id := range candidate {
		if _, ok := existing[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		invalid = append(invalid, id)
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{InvalidIDs: invalid}
	}
	return candidate, nil
}

// Move returns a copy of ids with songID moved to the 1-based position.
func Move(ids []int64, songID int64, position int) ([]int64, error) {
	l := NewList(ids)
	if err := l.Move(songID, position); err != nil {
		return nil, err
	}
	return l.IDs(), nil
}

// Remove returns a copy of ids without the first occurrence of songID.
func Remove(ids []int64, songID int64) ([]int64, error) {
	l := NewList(ids)
	if err := l.Remove(songID); err != nil {
		return nil, err
	}
	return l.IDs(), nil
}

// Append returns a copy of ids with songIDs added at the end.
func Append(ids []int64, songIDs ...int64) []int64 {
	l := NewList(ids)
	l.Append(songIDs...)
	return l.IDs()
}

// FirstOccurrences returns ids with repeats dropped, keeping each id at the
// position where it first appears.
func FirstOccurrences(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
