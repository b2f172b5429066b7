package transferatu

import (
	"context"
	"net/url"
)

// GroupClient manages groups under the client's base URL.
type GroupClient struct {
	client *Client
}

var _ GroupsAPI = (*GroupClient)(nil)

// Info returns the named group. The service answers an unknown name with a
// null body, which comes back as a nil group and no error.
func (g *GroupClient) Info(ctx context.Context, name string) (*Group, error) {
	var group *Group
	if err := g.client.Get(ctx, "/groups/"+url.PathEscape(name), nil, &group); err != nil {
		return nil, err
	}
	return group, nil
}

// List returns every group, deleted ones included.
func (g *GroupClient) List(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := g.client.Get(ctx, "/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Create creates a group, or revives a deleted one of the same name.
func (g *GroupClient) Create(ctx context.Context, name string, logInputURL *string) (*Group, error) {
	body := struct {
		Name        string  `json:"name"`
		LogInputURL *string `json:"log_input_url,omitempty"`
	}{Name: name, LogInputURL: logInputURL}

	var group Group
	if err := g.client.Post(ctx, "/groups", body, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete soft-deletes the named group.
func (g *GroupClient) Delete(ctx context.Context, name string) (*Group, error) {
	var group Group
	if err := g.client.Delete(ctx, "/groups/"+url.PathEscape(name), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// TransferClient manages the transfers of a group.
type TransferClient struct {
	client *Client
}

var _ TransfersAPI = (*TransferClient)(nil)

// Info returns a single transfer. With verbose set, its logs are included.
func (t *TransferClient) Info(ctx context.Context, id string, verbose bool) (*Transfer, error) {
	var query url.Values
	if verbose {
		query = url.Values{"verbose": {"true"}}
	}

	var xfer Transfer
	if err := t.client.Get(ctx, "/transfers/"+url.PathEscape(id), query, &xfer); err != nil {
		return nil, err
	}
	return &xfer, nil
}

// List returns the group's transfers in creation order.
func (t *TransferClient) List(ctx context.Context) ([]Transfer, error) {
	var transfers []Transfer
	if err := t.client.Get(ctx, "/transfers", nil, &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}

// Create starts a transfer.
func (t *TransferClient) Create(ctx context.Context, req TransferRequest) (*Transfer, error) {
	var xfer Transfer
	if err := t.client.Post(ctx, "/transfers", req, &xfer); err != nil {
		return nil, err
	}
	return &xfer, nil
}

// Delete removes a transfer.
func (t *TransferClient) Delete(ctx context.Context, id string) (*Transfer, error) {
	var xfer Transfer
	if err := t.client.Delete(ctx, "/transfers/"+url.PathEscape(id), &xfer); err != nil {
		return nil, err
	}
	return &xfer, nil
}

// ScheduleClient manages the schedules of a group.
type ScheduleClient struct {
	client *Client
}

var _ SchedulesAPI = (*ScheduleClient)(nil)

// Info returns a single schedule.
func (s *ScheduleClient) Info(ctx context.Context, id string) (*Schedule, error) {
	var sched Schedule
	if err := s.client.Get(ctx, "/schedules/"+url.PathEscape(id), nil, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// List returns the group's schedules in creation order.
func (s *ScheduleClient) List(ctx context.Context) ([]Schedule, error) {
	var schedules []Schedule
	if err := s.client.Get(ctx, "/schedules", nil, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// Create registers a schedule. Missing days and timezone are defaulted.
func (s *ScheduleClient) Create(ctx context.Context, req ScheduleRequest) (*Schedule, error) {
	var sched Schedule
	if err := s.client.Post(ctx, "/schedules", req.withDefaults(), &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// Delete removes a schedule.
func (s *ScheduleClient) Delete(ctx context.Context, id string) (*Schedule, error) {
	var sched Schedule
	if err := s.client.Delete(ctx, "/schedules/"+url.PathEscape(id), &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}
