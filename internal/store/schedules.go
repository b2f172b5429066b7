package store

import "fmt"

func (s Schedule) clone() Schedule {
	if s.Days != nil {
		s.Days = append([]string(nil), s.Days...)
	}
	return s
}

// AddSchedule appends a schedule to the group's sequence. Like AddTransfer it
// only checks group key presence.
func (s *Store) AddSchedule(group string, in ScheduleInput) (Schedule, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireGroupKey(txn, group); err != nil {
		return Schedule{}, err
	}

	sched := Schedule{
		UUID:        newID(),
		Group:       group,
		Name:        in.Name,
		CallbackURL: in.CallbackURL,
		Days:        in.Days,
		Hour:        in.Hour,
		Timezone:    in.Timezone,
		seq:         s.next(),
	}.clone()
	if err := txn.Insert(scheduleTable, &sched); err != nil {
		return Schedule{}, fmt.Errorf("insert schedule: %w", err)
	}
	txn.Commit()
	return sched.clone(), nil
}

// ListSchedules returns the group's schedules in creation order.
func (s *Store) ListSchedules(group string) ([]Schedule, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	if err := requireLiveGroup(txn, group); err != nil {
		return nil, err
	}

	recs, err := children(txn, scheduleTable, group)
	if err != nil {
		return nil, err
	}
	schedules := make([]Schedule, 0, len(recs))
	for _, rec := range recs {
		schedules = append(schedules, rec.(*Schedule).clone())
	}
	return schedules, nil
}

// GetSchedule returns a single schedule, failing with ErrGone when the group
// is soft-deleted.
func (s *Store) GetSchedule(group, id string) (Schedule, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	if err := requireLiveGroup(txn, group); err != nil {
		return Schedule{}, err
	}

	raw, err := child(txn, scheduleTable, group, id)
	if err != nil {
		return Schedule{}, err
	}
	return raw.(*Schedule).clone(), nil
}

// DeleteSchedule removes a schedule from its group and returns it.
func (s *Store) DeleteSchedule(group, id string) (Schedule, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := requireGroupKey(txn, group); err != nil {
		return Schedule{}, err
	}

	raw, err := child(txn, scheduleTable, group, id)
	if err != nil {
		return Schedule{}, err
	}
	if err := txn.Delete(scheduleTable, raw); err != nil {
		return Schedule{}, fmt.Errorf("delete schedule %q: %w", id, err)
	}
	txn.Commit()
	return raw.(*Schedule).clone(), nil
}

// FindSchedule returns the first schedule of the group that satisfies match.
func (s *Store) FindSchedule(group string, match func(Schedule) bool) (Schedule, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	recs, err := children(txn, scheduleTable, group)
	if err != nil {
		return Schedule{}, false
	}
	for _, rec := range recs {
		if sched := rec.(*Schedule).clone(); match(sched) {
			return sched, true
		}
	}
	return Schedule{}, false
}

// LastSchedule returns the most recently created schedule of the group.
func (s *Store) LastSchedule(group string) (Schedule, bool) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	recs, err := children(txn, scheduleTable, group)
	if err != nil || len(recs) == 0 {
		return Schedule{}, false
	}
	return recs[len(recs)-1].(*Schedule).clone(), true
}
