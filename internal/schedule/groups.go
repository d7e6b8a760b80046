package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/meetgrid/meetgrid/internal/backend"
	"github.com/meetgrid/meetgrid/internal/metrics"
)

// ErrGroupNotFound is returned when a group id is not in the viewer's
// group list.
var ErrGroupNotFound = fmt.Errorf("group not found")

// LoadGroups fetches the viewer's group list and replaces it wholesale.
// On failure the list becomes empty and the error is recorded.
func (a *Aggregator) LoadGroups(ctx context.Context) error {
	a.mu.Lock()
	a.loadingGroups = true
	a.mu.Unlock()

	groups, err := a.client.Groups(ctx)
	metrics.ObserveFetch("groups", err)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.loadingGroups = false

	if err != nil {
		a.groups = []backend.Group{}
		a.groupsErr = err
		return err
	}
	a.groups = groups
	a.groupsErr = nil
	return nil
}

// SelectGroup makes the given group active and loads its member list.
// Group membership itself is managed elsewhere; the engine only lists and
// selects.
func (a *Aggregator) SelectGroup(ctx context.Context, groupID string) error {
	a.mu.Lock()
	var found *backend.Group
	for i := range a.groups {
		if a.groups[i].ID == groupID {
			g := a.groups[i]
			found = &g
			break
		}
	}
	a.mu.Unlock()

	if found == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}

	members, err := a.client.GroupMembers(ctx, groupID)
	metrics.ObserveFetch("members", err)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.activeGroup = found
	a.members = members
	return nil
}

// AwaitGroupMembership polls the group list until groupID appears, then
// selects it. Group membership is eventually consistent after an invite
// join; polling replaces a fixed delay so a slow backend cannot lose the
// auto-select.
func (a *Aggregator) AwaitGroupMembership(ctx context.Context, groupID string, interval time.Duration, maxAttempts int) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}

		if err := a.LoadGroups(ctx); err != nil {
			continue
		}
		if err := a.SelectGroup(ctx, groupID); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s did not appear after %d attempts", ErrGroupNotFound, groupID, maxAttempts)
}

// Groups returns a snapshot of the viewer's group list.
func (a *Aggregator) Groups() []backend.Group {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]backend.Group(nil), a.groups...)
}

// ActiveGroup returns the selected group, if any.
func (a *Aggregator) ActiveGroup() (backend.Group, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeGroup == nil {
		return backend.Group{}, false
	}
	return *a.activeGroup, true
}

// Members returns the member list of the active group.
func (a *Aggregator) Members() []backend.GroupMember {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]backend.GroupMember(nil), a.members...)
}

// GroupsError returns the error recorded by the last group-list fetch.
func (a *Aggregator) GroupsError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.groupsErr
}
