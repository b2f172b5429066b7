package transferatu

import (
	"context"
	"net/url"
)

// ClientAPI is the raw request surface of Client. It exists so callers can
// be tested against a mock.
type ClientAPI interface {
	BaseURL() string
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}

// GroupsAPI defines the group operations.
type GroupsAPI interface {
	Info(ctx context.Context, name string) (*Group, error)
	List(ctx context.Context) ([]Group, error)
	Create(ctx context.Context, name string, logInputURL *string) (*Group, error)
	Delete(ctx context.Context, name string) (*Group, error)
}

// TransfersAPI defines the transfer operations of a group.
type TransfersAPI interface {
	Info(ctx context.Context, id string, verbose bool) (*Transfer, error)
	List(ctx context.Context) ([]Transfer, error)
	Create(ctx context.Context, req TransferRequest) (*Transfer, error)
	Delete(ctx context.Context, id string) (*Transfer, error)
}

// SchedulesAPI defines the schedule operations of a group.
type SchedulesAPI interface {
	Info(ctx context.Context, id string) (*Schedule, error)
	List(ctx context.Context) ([]Schedule, error)
	Create(ctx context.Context, req ScheduleRequest) (*Schedule, error)
	Delete(ctx context.Context, id string) (*Schedule, error)
}
