package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applypilot/applypilot-web/internal/backend"
	"github.com/applypilot/applypilot-web/internal/dtos"
	"github.com/applypilot/applypilot-web/internal/models"
)

func newJobStoreAgainst(t *testing.T, handler http.HandlerFunc) *JobStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewJobStore(backend.New(server.URL, 5*time.Second))
}

func jobListHandler(jobs []models.Job) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dtos.JobListResponse{
			Jobs:       jobs,
			Pagination: models.Pagination{Page: 1, PerPage: 20, Total: len(jobs), TotalPages: 1},
		})
	}
}

func threeJobs() []models.Job {
	return []models.Job{
		{ID: "j1", CompanyName: "Stripe", Title: "Backend Engineer", Status: "OPEN"},
		{ID: "j2", CompanyName: "Datadog", Title: "SRE", Status: "OPEN"},
		{ID: "j3", CompanyName: "Vercel", Title: "Platform Engineer", Status: "OPEN"},
	}
}

func TestJobStore_ListReplacesCache(t *testing.T) {
	store := newJobStoreAgainst(t, jobListHandler(threeJobs()))

	jobs, err := store.List(context.Background(), map[string]string{"search": "engineer"})
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
	assert.Len(t, store.Snapshot(), 3)
	assert.Equal(t, 3, store.Pagination().Total)
	assert.False(t, store.Loading())
	assert.NoError(t, store.Err())
}

// A failed refresh must leave the previously loaded collection untouched,
// record the error, and still end with the loading flag down.
func TestJobStore_ListFailureKeepsPriorCache(t *testing.T) {
	fail := false
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "backend down"})
			return
		}
		jobListHandler(threeJobs())(w, r)
	})

	_, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, store.Snapshot(), 3)

	fail = true
	_, err = store.List(context.Background(), nil)
	require.Error(t, err)

	assert.Len(t, store.Snapshot(), 3, "failed list must not clear the cache")
	assert.False(t, store.Loading(), "loading flag must end false even on failure")
	assert.Error(t, store.Err())
}

// The cache takes the server's returned representation, never the local patch:
// the fake backend answers with derived fields the patch never mentioned.
func TestJobStore_MutateUsesServerRepresentation(t *testing.T) {
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			json.NewEncoder(w).Encode(models.Job{
				ID: "j1", CompanyName: "Stripe", Title: "Staff Backend Engineer",
				Status: "OPEN", MatchScore: 87, // server-derived, not in the patch
			})
			return
		}
		jobListHandler(threeJobs())(w, r)
	})

	_, err := store.List(context.Background(), nil)
	require.NoError(t, err)

	updated, err := store.Mutate(context.Background(), "j1", &dtos.JobUpdateRequest{Title: "Staff Backend Engineer"})
	require.NoError(t, err)
	assert.Equal(t, 87, updated.MatchScore)

	cached := store.Snapshot()[0]
	assert.Equal(t, "Staff Backend Engineer", cached.Title)
	assert.Equal(t, 87, cached.MatchScore, "cache must hold the server's record, not the patch")
}

func TestJobStore_MutateFailureLeavesCacheAlone(t *testing.T) {
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "version conflict"})
			return
		}
		jobListHandler(threeJobs())(w, r)
	})

	_, err := store.List(context.Background(), nil)
	require.NoError(t, err)

	_, err = store.Mutate(context.Background(), "j1", &dtos.JobUpdateRequest{Title: "Changed"})
	require.Error(t, err)
	assert.Equal(t, "Backend Engineer", store.Snapshot()[0].Title)
}

// An id the cache has never seen is a no-op on the visible list, not an error.
func TestJobStore_MutateUnknownIDIsNotAnError(t *testing.T) {
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			json.NewEncoder(w).Encode(models.Job{ID: "j99", Title: "Elsewhere"})
			return
		}
		jobListHandler(threeJobs())(w, r)
	})

	_, err := store.List(context.Background(), nil)
	require.NoError(t, err)

	updated, err := store.Mutate(context.Background(), "j99", &dtos.JobUpdateRequest{Title: "Elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, "j99", updated.ID)
	assert.Len(t, store.Snapshot(), 3, "unknown id must not change the visible list")
}

func TestJobStore_RemoveOnlyAfterConfirmedDelete(t *testing.T) {
	fail := true
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("{}"))
			return
		}
		jobListHandler(threeJobs())(w, r)
	})

	_, err := store.List(context.Background(), nil)
	require.NoError(t, err)

	// Failed delete: record stays
	require.Error(t, store.Remove(context.Background(), "j2"))
	assert.Len(t, store.Snapshot(), 3)

	// Confirmed delete: record gone
	fail = false
	require.NoError(t, store.Remove(context.Background(), "j2"))

	snapshot := store.Snapshot()
	assert.Len(t, snapshot, 2)
	for _, job := range snapshot {
		assert.NotEqual(t, "j2", job.ID)
	}
}

// Two overlapping List calls: the response that arrives last but was issued
// first must not overwrite the fresher data.
func TestJobStore_StaleListResponseIsDiscarded(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(firstArrived)
			<-release
			jobListHandler(threeJobs())(w, r) // stale answer, three records
			return
		}
		jobListHandler(threeJobs()[:1])(w, r) // fresh answer, one record
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.List(context.Background(), nil)
	}()

	<-firstArrived
	_, err := store.List(context.Background(), nil)
	require.NoError(t, err)

	close(release)
	<-done

	assert.Len(t, store.Snapshot(), 1, "superseded response must not replace fresher data")
	assert.False(t, store.Loading())
}

func TestJobStore_CreateAppendsServerRecord(t *testing.T) {
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Job{ID: "server-assigned-id", CompanyName: "Fly.io", Title: "Infra Engineer"})
			return
		}
		jobListHandler(nil)(w, r)
	})

	created, err := store.Create(context.Background(), &dtos.JobCreationRequest{
		CompanyName: "Fly.io",
		Title:       "Infra Engineer",
		JobLink:     "https://fly.io/jobs/1",
		Description: "Keep the machines alive",
	})
	require.NoError(t, err)
	assert.Equal(t, "server-assigned-id", created.ID)

	snapshot := store.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "server-assigned-id", snapshot[0].ID)
}

func TestJobStore_SaveReconcilesLocalRecord(t *testing.T) {
	store := newJobStoreAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(models.Job{ID: "j1", CompanyName: "Stripe", Title: "Backend Engineer", Saved: true})
			return
		}
		jobListHandler(threeJobs())(w, r)
	})

	_, err := store.List(context.Background(), nil)
	require.NoError(t, err)

	saved, err := store.Save(context.Background(), "j1")
	require.NoError(t, err)
	assert.True(t, saved.Saved)
	assert.True(t, store.Snapshot()[0].Saved)
}
