package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
)

var (
	ErrNotFound = errors.New("not found")
	ErrGone     = errors.New("gone")
	ErrConflict = errors.New("conflict")
)

const (
	groupTable    = "group"
	transferTable = "transfer"
	scheduleTable = "schedule"

	// PK is the primary key index. go-memdb requires an "id" index on every table.
	PK         = "id"
	groupIndex = "group"
)

// Schema describes the in-memory tables backing the store.
func Schema() *memdb.DBSchema {
	childTable := func(name string) *memdb.TableSchema {
		return &memdb.TableSchema{
			Name: name,
			Indexes: map[string]*memdb.IndexSchema{
				PK: {
					Name:    PK,
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "UUID"},
				},
				groupIndex: {
					Name:    groupIndex,
					Indexer: &memdb.StringFieldIndex{Field: "Group"},
				},
			},
		}
	}

	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			groupTable: {
				Name: groupTable,
				Indexes: map[string]*memdb.IndexSchema{
					PK: {
						Name:    PK,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Name"},
					},
				},
			},
			transferTable: childTable(transferTable),
			scheduleTable: childTable(scheduleTable),
		},
	}
}

// Store owns every group, transfer and schedule record. Writes go through a
// single go-memdb write transaction, so each call is atomic and mutations are
// serialized. Records handed out are copies.
type Store struct {
	db *memdb.MemDB

	// seq orders records by insertion; only touched inside a write txn.
	seq uint64
}

// New creates an empty store.
func New() (*Store, error) {
	db, err := memdb.NewMemDB(Schema())
	if err != nil {
		return nil, fmt.Errorf("failed to create memdb: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) next() uint64 {
	s.seq++
	return s.seq
}

type sequenced interface {
	sequence() uint64
}

// collect drains a result iterator and orders the records by insertion.
func collect(it memdb.ResultIterator) []sequenced {
	var out []sequenced
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(sequenced))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].sequence() < out[j].sequence()
	})
	return out
}

func firstGroup(txn *memdb.Txn, name string) (*Group, error) {
	raw, err := txn.First(groupTable, PK, name)
	if err != nil {
		return nil, fmt.Errorf("lookup group %q: %w", name, err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*Group), nil
}

// AddGroup creates a group, or revives it if a soft-deleted group of the same
// name exists. A revived group keeps its original log input URL. The boolean
// result reports whether the group was revived.
func (s *Store) AddGroup(name string, logInputURL *string) (Group, bool, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := firstGroup(txn, name)
	if err != nil {
		return Group{}, false, err
	}

	if existing != nil {
		if !existing.IsDeleted() {
			return existing.clone(), false, fmt.Errorf("group %s already exists: %w", name, ErrConflict)
		}
		revived := *existing
		revived.State = GroupActive
		if err := txn.Insert(groupTable, &revived); err != nil {
			return Group{}, false, fmt.Errorf("revive group %q: %w", name, err)
		}
		txn.Commit()
		return revived.clone(), true, nil
	}

	group := &Group{
		Name:        name,
		LogInputURL: copyString(logInputURL),
		State:       GroupActive,
		seq:         s.next(),
	}
	if err := txn.Insert(groupTable, group); err != nil {
		return Group{}, false, fmt.Errorf("insert group %q: %w", name, err)
	}
	txn.Commit()
	return group.clone(), false, nil
}

// DeleteGroup soft-deletes a group.
func (s *Store) DeleteGroup(name string) (Group, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := firstGroup(txn, name)
	if err != nil {
		return Group{}, err
	}
	if existing == nil {
		return Group{}, fmt.Errorf("group %s: %w", name, ErrNotFound)
	}
	if existing.IsDeleted() {
		return existing.clone(), fmt.Errorf("group %s: %w", name, ErrGone)
	}

	deleted := *existing
	deleted.State = GroupDeleted
	if err := txn.Insert(groupTable, &deleted); err != nil {
		return Group{}, fmt.Errorf("delete group %q: %w", name, err)
	}
	txn.Commit()
	return deleted.clone(), nil
}

// GetGroup returns the named group regardless of its state.
func (s *Store) GetGroup(name string) (Group, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	group, err := firstGroup(txn, name)
	if err != nil || group == nil {
		return Group{}, false
	}
	return group.clone(), true
}

// HasGroupKey reports whether a group of that name was ever created. Deleted
// groups still count.
func (s *Store) HasGroupKey(name string) bool {
	_, ok := s.GetGroup(name)
	return ok
}

// ListGroups returns every group, deleted ones included, in creation order.
func (s *Store) ListGroups() ([]Group, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(groupTable, PK)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups := []Group{}
	for _, rec := range collect(it) {
		groups = append(groups, rec.(*Group).clone())
	}
	return groups, nil
}

// ActiveGroups returns the groups that are not soft-deleted.
func (s *Store) ActiveGroups() ([]Group, error) {
	all, err := s.ListGroups()
	if err != nil {
		return nil, err
	}

	active := make([]Group, 0, len(all))
	for _, g := range all {
		if !g.IsDeleted() {
			active = append(active, g)
		}
	}
	return active, nil
}

// requireLiveGroup fails with ErrNotFound for unknown groups and ErrGone for
// soft-deleted ones.
func requireLiveGroup(txn *memdb.Txn, name string) error {
	group, err := firstGroup(txn, name)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s: %w", name, ErrNotFound)
	}
	if group.IsDeleted() {
		return fmt.Errorf("group %s: %w", name, ErrGone)
	}
	return nil
}

// requireGroupKey only checks that the group was ever created.
func requireGroupKey(txn *memdb.Txn, name string) error {
	group, err := firstGroup(txn, name)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %s: %w", name, ErrNotFound)
	}
	return nil
}

// children returns the records of table owned by group in insertion order.
func children(txn *memdb.Txn, table, group string) ([]sequenced, error) {
	it, err := txn.Get(table, groupIndex, group)
	if err != nil {
		return nil, fmt.Errorf("list %s for group %q: %w", table, group, err)
	}
	return collect(it), nil
}

// child looks up a single record of table by id, scoped to group.
func child(txn *memdb.Txn, table, group, id string) (interface{}, error) {
	raw, err := txn.First(table, PK, id)
	if err != nil {
		return nil, fmt.Errorf("lookup %s %q: %w", table, id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s %s: %w", table, id, ErrNotFound)
	}

	var owner string
	switch rec := raw.(type) {
	case *Transfer:
		owner = rec.Group
	case *Schedule:
		owner = rec.Group
	}
	if owner != group {
		return nil, fmt.Errorf("%s %s in group %s: %w", table, id, group, ErrNotFound)
	}
	return raw, nil
}

func newID() string {
	return uuid.NewString()
}
