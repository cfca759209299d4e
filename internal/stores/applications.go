package stores

import (
	"context"
	"net/url"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/dtos"
	"github.com/applypilot/applypilot-web/internal/models"
)

// ApplicationStore caches the applications collection. Same contract as
// JobStore: the backend owns the data, the cache only mirrors confirmed state.
type ApplicationStore struct {
	cacheState
	client       *backend.Client
	applications []models.Application
	pagination   models.Pagination
}

func NewApplicationStore(client *backend.Client) *ApplicationStore {
	return &ApplicationStore{client: client}
}

func (s *ApplicationStore) List(ctx context.Context, filters map[string]string) ([]models.Application, error) {
	gen := s.beginList()

	var resp dtos.ApplicationListResponse
	err := s.client.Get(ctx, "/api/v1/applications"+encodeFilters(filters), &resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen {
		s.loading = false
	}
	if err != nil {
		if gen == s.gen {
			s.lastErr = err
		}
		return nil, err
	}
	if gen != s.gen {
		return resp.Applications, nil
	}
	s.applications = resp.Applications
	s.pagination = resp.Pagination
	s.lastErr = nil
	return resp.Applications, nil
}

func (s *ApplicationStore) Create(ctx context.Context, req *dtos.ApplicationCreationRequest) (*models.Application, error) {
	var created models.Application
	if err := s.client.Post(ctx, "/api/v1/applications", req, &created); err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications = append(s.applications, created)
	return &created, nil
}

func (s *ApplicationStore) Mutate(ctx context.Context, id string, req *dtos.ApplicationUpdateRequest) (*models.Application, error) {
	var updated models.Application
	if err := s.client.Put(ctx, "/api/v1/applications/"+url.PathEscape(id), req, &updated); err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.replaceLocal(&updated)
	return &updated, nil
}

func (s *ApplicationStore) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/api/v1/applications/"+url.PathEscape(id)); err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.applications[:0]
	for _, app := range s.applications {
		if app.ID != id {
			kept = append(kept, app)
		}
	}
	s.applications = kept
	return nil
}

// SetStatus pushes a status change (PUT /applications/{id}/status). Used by
// the dashboard and by the email watcher; either way the backend stays the
// source of truth and the cache takes the server's returned record.
func (s *ApplicationStore) SetStatus(ctx context.Context, id, status string) (*models.Application, error) {
	req := dtos.ApplicationStatusRequest{Status: status}
	var updated models.Application
	if err := s.client.Put(ctx, "/api/v1/applications/"+url.PathEscape(id)+"/status", &req, &updated); err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.replaceLocal(&updated)
	return &updated, nil
}

// Queue fetches the action queue view. Like job matches, it never replaces the
// main cache.
func (s *ApplicationStore) Queue(ctx context.Context) ([]models.Application, error) {
	var resp dtos.ApplicationQueueResponse
	if err := s.client.Get(ctx, "/api/v1/applications/queue", &resp); err != nil {
		s.recordErr(err)
		return nil, err
	}
	return resp.Queue, nil
}

func (s *ApplicationStore) Snapshot() []models.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Application, len(s.applications))
	copy(out, s.applications)
	return out
}

func (s *ApplicationStore) Pagination() models.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *ApplicationStore) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *ApplicationStore) replaceLocal(updated *models.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.applications {
		if s.applications[i].ID == updated.ID {
			s.applications[i] = *updated
			return
		}
	}
}
