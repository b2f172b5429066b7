package store

import "fmt"

func (t Transfer) clone() Transfer {
	t.FromName = copyString(t.FromName)
	t.ToName = copyString(t.ToName)
	return t
}

// AddTransfer appends a transfer to the group's sequence. Only group key
// presence is checked, so transfers can be added to a soft-deleted group.
func (s *Store) AddTransfer(group string, in TransferInput) (Transfer, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireGroupKey(txn, group); err != nil {
		return Transfer{}, err
	}

	xfer := &Transfer{
		UUID:     newID(),
		Group:    group,
		FromType: in.FromType,
		FromURL:  in.FromURL,
		FromName: copyString(in.FromName),
		ToType:   in.ToType,
		ToURL:    in.ToURL,
		ToName:   copyString(in.ToName),
		seq:      s.next(),
	}
	if err := txn.Insert(transferTable, xfer); err != nil {
		return Transfer{}, fmt.Errorf("insert transfer: %w", err)
	}
	txn.Commit()
	return xfer.clone(), nil
}

// ListTransfers returns the group's transfers in creation order.
func (s *Store) ListTransfers(group string) ([]Transfer, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	if err := requireLiveGroup(txn, group); err != nil {
		return nil, err
	}

	recs, err := children(txn, transferTable, group)
	if err != nil {
		return nil, err
	}
	transfers := make([]Transfer, 0, len(recs))
	for _, rec := range recs {
		transfers = append(transfers, rec.(*Transfer).clone())
	}
	return transfers, nil
}

// GetTransfer returns a single transfer. It fails with ErrGone when the group
// is soft-deleted.
func (s *Store) GetTransfer(group, id string) (Transfer, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	if err := requireLiveGroup(txn, group); err != nil {
		return Transfer{}, err
	}

	raw, err := child(txn, transferTable, group, id)
	if err != nil {
		return Transfer{}, err
	}
	return raw.(*Transfer).clone(), nil
}

// DeleteTransfer removes a transfer from its group and returns it.
func (s *Store) DeleteTransfer(group, id string) (Transfer, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireGroupKey(txn, group); err != nil {
		return Transfer{}, err
	}

	raw, err := child(txn, transferTable, group, id)
	if err != nil {
		return Transfer{}, err
	}
	if err := txn.Delete(transferTable, raw); err != nil {
		return Transfer{}, fmt.Errorf("delete transfer %q: %w", id, err)
	}
	txn.Commit()
	return raw.(*Transfer).clone(), nil
}

// FindTransfer returns the first transfer of the group, in creation order,
// that satisfies match. The group's state is ignored.
func (s *Store) FindTransfer(group string, match func(Transfer) bool) (Transfer, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	recs, err := children(txn, transferTable, group)
	if err != nil {
		return Transfer{}, false
	}
	for _, rec := range recs {
		if xfer := rec.(*Transfer).clone(); match(xfer) {
			return xfer, true
		}
	}
	return Transfer{}, false
}

// LastTransfer returns the most recently created transfer of the group.
func (s *Store) LastTransfer(group string) (Transfer, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	recs, err := children(txn, transferTable, group)
	if err != nil || len(recs) == 0 {
		return Transfer{}, false
	}
	return recs[len(recs)-1].(*Transfer).clone(), true
}
