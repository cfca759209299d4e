package stores

import (
	"context"
	"net/url"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/dtos"
	"github.com/applypilot/applypilot-web/internal/models"
)

// JobStore caches the job listings collection.
type JobStore struct {
	cacheState
	client     *backend.Client
	jobs       []models.Job
	pagination models.Pagination
}

func NewJobStore(client *backend.Client) *JobStore {
	return &JobStore{client: client}
}

// List replaces the cached collection with the backend's answer. On failure the
// prior cache is left untouched and the error is recorded; the loading flag is
// always cleared. A response superseded by a newer List is handed back to the
// caller but never written into the cache.
func (s *JobStore) List(ctx context.Context, filters map[string]string) ([]models.Job, error) {
	gen := s.beginList()

	var resp dtos.JobListResponse
	err := s.client.Get(ctx, "/api/v1/jobs"+encodeFilters(filters), &resp)

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
		return resp.Jobs, nil
	}
	s.jobs = resp.Jobs
	s.pagination = resp.Pagination
	s.lastErr = nil
	return resp.Jobs, nil
}

// Create POSTs the new job and appends the server-returned record. The server
// assigns the id; a client-generated one is never trusted.
func (s *JobStore) Create(ctx context.Context, req *dtos.JobCreationRequest) (*models.Job, error) {
	var created models.Job
	if err := s.client.Post(ctx, "/api/v1/jobs", req, &created); err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, created)
	return &created, nil
}

// Mutate PUTs the partial update. Only after a successful response is the
// matching local record replaced, and with the server's representation, not the
// patch (server-derived fields would drift otherwise). An id missing from the
// cache is a no-op on the visible list, not an error.
func (s *JobStore) Mutate(ctx context.Context, id string, req *dtos.JobUpdateRequest) (*models.Job, error) {
	var updated models.Job
	if err := s.client.Put(ctx, "/api/v1/jobs/"+url.PathEscape(id), req, &updated); err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.replaceLocal(&updated)
	return &updated, nil
}

// Remove deletes the record remotely and only then drops it locally. After a
// failed delete the record stays put and the error goes back to the caller.
func (s *JobStore) Remove(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, "/api/v1/jobs/"+url.PathEscape(id)); err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.jobs[:0]
	for _, job := range s.jobs {
		if job.ID != id {
			kept = append(kept, job)
		}
	}
	s.jobs = kept
	return nil
}

// Save bookmarks a job (POST /jobs/{id}/save) and reconciles the local record
// with the server's answer.
func (s *JobStore) Save(ctx context.Context, id string) (*models.Job, error) {
	var updated models.Job
	if err := s.client.Post(ctx, "/api/v1/jobs/"+url.PathEscape(id)+"/save", nil, &updated); err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.replaceLocal(&updated)
	return &updated, nil
}

// Matches fetches the AI-ranked job matches. A separate view; it does not
// replace the main listings cache.
func (s *JobStore) Matches(ctx context.Context) ([]models.Job, error) {
	var resp dtos.JobMatchesResponse
	if err := s.client.Get(ctx, "/api/v1/jobs/matches", &resp); err != nil {
		s.recordErr(err)
		return nil, err
	}
	return resp.Matches, nil
}

// Snapshot returns a copy of the cached collection.
func (s *JobStore) Snapshot() []models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}

// Pagination returns the metadata from the last successful List.
func (s *JobStore) Pagination() models.Pagination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

func (s *JobStore) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *JobStore) replaceLocal(updated *models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == updated.ID {
			s.jobs[i] = *updated
			return
		}
	}
}
