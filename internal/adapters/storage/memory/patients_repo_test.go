package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bhw-patient-registry/internal/domain/patients"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientRepo_CreateAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo()

	a, err := repo.Create(ctx, patients.Patient{Name: "ANA"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, patients.Patient{Name: "BEN", ID: 99})
	require.NoError(t, err)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)

	next, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
}

func TestPatientRepo_ListKeepsRegistryOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo()

	for _, n := range []string{"ZED", "ANA", "MIA"} {
		_, err := repo.Create(ctx, patients.Patient{Name: n})
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"ZED", "ANA", "MIA"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestPatientRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo()

	p, err := repo.Create(ctx, patients.Patient{Name: "ANA", Records: []string{"first"}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Records[0] = "mutated"

	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Records[0])
}

func TestPatientRepo_UpdateAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo()

	p, err := repo.Create(ctx, patients.Patient{Name: "ANA"})
	require.NoError(t, err)

	p.HealthStatus = "Asthma"
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asthma", got.HealthStatus)

	err = repo.Update(ctx, patients.Patient{ID: 7})
	assert.True(t, errors.Is(err, patients.ErrNotFound))

	_, err = repo.GetByID(ctx, 7)
	assert.ErrorIs(t, err, patients.ErrNotFound)
}

func TestPatientRepo_ReplaceResetsNextID(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo()

	_, err := repo.Create(ctx, patients.Patient{Name: "OLD"})
	require.NoError(t, err)

	require.NoError(t, repo.Replace(ctx, []patients.Patient{
		{ID: 5, Name: "E"},
		{ID: 2, Name: "B"},
	}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[0].ID)

	next, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, next)

	require.NoError(t, repo.Replace(ctx, nil))
	next, err = repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPatientRepo_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepo()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.Create(ctx, patients.Patient{Name: "X"})
			if err == nil {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
