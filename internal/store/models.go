package store

import "encoding/json"

// GroupState is the lifecycle state of a group. Groups are never hard-deleted,
// so the only transitions are Active -> Deleted and Deleted -> Active.
type GroupState int

const (
	GroupActive GroupState = iota
	GroupDeleted
)

// String returns a human-readable state name
func (s GroupState) String() string {
	switch s {
	case GroupActive:
		return "active"
	case GroupDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Group is the top-level namespace owning transfers and schedules.
type Group struct {
	Name        string
	LogInputURL *string
	State       GroupState

	seq uint64
}

// IsDeleted reports whether the group has been soft-deleted
func (g Group) IsDeleted() bool {
	return g.State == GroupDeleted
}

// MarshalJSON emits the deleted flag only while the group is soft-deleted.
func (g Group) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string  `json:"name"`
		LogInputURL *string `json:"log_input_url"`
		Deleted     bool    `json:"deleted,omitempty"`
	}{
		Name:        g.Name,
		LogInputURL: g.LogInputURL,
		Deleted:     g.IsDeleted(),
	})
}

func (g Group) sequence() uint64 { return g.seq }

func (g Group) clone() Group {
	g.LogInputURL = copyString(g.LogInputURL)
	return g
}

// Transfer is a one-time data-copy job scoped to a group.
type Transfer struct {
	UUID     string  `json:"uuid"`
	Group    string  `json:"-"`
	FromType string  `json:"from_type"`
	FromURL  string  `json:"from_url"`
	FromName *string `json:"from_name"`
	ToType   string  `json:"to_type"`
	ToURL    string  `json:"to_url"`
	ToName   *string `json:"to_name"`

	seq uint64
}

func (t Transfer) sequence() uint64 { return t.seq }

// TransferInput holds the whitelisted fields accepted when creating a transfer.
// Anything else in a request body is dropped.
type TransferInput struct {
	FromType string  `json:"from_type"`
	FromURL  string  `json:"from_url"`
	FromName *string `json:"from_name"`
	ToType   string  `json:"to_type"`
	ToURL    string  `json:"to_url"`
	ToName   *string `json:"to_name"`
}

// Schedule is a recurring-transfer definition scoped to a group.
type Schedule struct {
	UUID        string   `json:"uuid"`
	Group       string   `json:"-"`
	Name        string   `json:"name"`
	CallbackURL string   `json:"callback_url"`
	Days        []string `json:"days"`
	Hour        int      `json:"hour"`
	Timezone    string   `json:"timezone"`

	seq uint64
}

func (s Schedule) sequence() uint64 { return s.seq }

// ScheduleInput holds the whitelisted fields accepted when creating a schedule.
type ScheduleInput struct {
	Name        string   `json:"name"`
	CallbackURL string   `json:"callback_url"`
	Days        []string `json:"days"`
	Hour        int      `json:"hour"`
	Timezone    string   `json:"timezone"`
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
