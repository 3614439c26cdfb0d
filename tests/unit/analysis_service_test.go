package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projlens/projlens-backend/internal/analyses/domain"
	"github.com/projlens/projlens-backend/internal/analyses/service"
	"github.com/projlens/projlens-backend/internal/apperr"
)

type fakeAnalysisStore struct {
	analyses []domain.Analysis
	nextID   int64
}

func newFakeAnalysisStore(t *testing.T) *fakeAnalysisStore {
	t.Helper()
	mk := func(id int64, name string, projectID, createdBy int64) domain.Analysis {
		by := createdBy
		a, err := domain.NewAnalysis(id, name, projectID, &by)
		require.NoError(t, err)
		return a
	}
	return &fakeAnalysisStore{
		analyses: []domain.Analysis{
			mk(1, "Analyse blanche", 3, 2),
			mk(2, "Analyse noire", 3, 2),
			mk(3, "Analyse rouge", 4, 2),
		},
		nextID: 4,
	}
}

func (f *fakeAnalysisStore) visible(a domain.Analysis, userID int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	// The shared fixtures grant project 3 to user 3 and ownership of
	// projects 3 and 4 to user 2.
	switch a.ProjectID {
	case 3:
		return userID == 2 || userID == 3
	case 4:
		return userID == 2
	}
	return false
}

func (f *fakeAnalysisStore) FindAllByProject(_ context.Context, projectID, userID int64, isAdmin bool) ([]domain.Analysis, error) {
	out := make([]domain.Analysis, 0)
	for _, a := range f.analyses {
		if a.ProjectID == projectID && f.visible(a, userID, isAdmin) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnalysisStore) FindByIDInProject(_ context.Context, projectID, analysisID, userID int64, isAdmin bool) (*domain.Analysis, error) {
	for _, a := range f.analyses {
		if a.ID == analysisID && a.ProjectID == projectID && f.visible(a, userID, isAdmin) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAnalysisStore) Create(_ context.Context, name string, projectID, createdBy int64) (domain.Analysis, error) {
	by := createdBy
	a, err := domain.NewAnalysis(f.nextID, name, projectID, &by)
	if err != nil {
		return domain.Analysis{}, err
	}
	f.analyses = append(f.analyses, a)
	f.nextID++
	return a, nil
}

func TestAnalysisService_ListByProject(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAnalysisService(newFakeAnalysisStore(t))

	t.Run("sharee lists the project's analyses", func(t *testing.T) {
		got, err := svc.ListByProject(ctx, 3, readerActor)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Analyse blanche", got[0].Name)
		assert.Equal(t, "Analyse noire", got[1].Name)
	})

	t.Run("empty project yields an empty list, not null", func(t *testing.T) {
		got, err := svc.ListByProject(ctx, 1, adminActor)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("invalid project id is rejected", func(t *testing.T) {
		_, err := svc.ListByProject(ctx, 0, adminActor)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}

func TestAnalysisService_GetByProject(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAnalysisService(newFakeAnalysisStore(t))

	t.Run("found in scope", func(t *testing.T) {
		dto, err := svc.GetByProject(ctx, 3, 2, managerActor)
		require.NoError(t, err)
		assert.Equal(t, domain.AnalysisDTO{ID: 2, Name: "Analyse noire"}, dto)
	})

	t.Run("exists in another project reads as not found", func(t *testing.T) {
		_, err := svc.GetByProject(ctx, 3, 3, adminActor)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
		assert.EqualError(t, err, "Analysis not found (ID: 3)")
	})

	t.Run("out of visibility scope reads as not found", func(t *testing.T) {
		_, err := svc.GetByProject(ctx, 4, 3, readerActor)
		require.Error(t, err)
		assert.EqualError(t, err, "Analysis not found (ID: 3)")
	})
}

func TestAnalysisService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with the actor as author", func(t *testing.T) {
		store := newFakeAnalysisStore(t)
		svc := service.NewAnalysisService(store)
		dto, err := svc.Create(ctx, "Analyse verte", 4, managerActor)
		require.NoError(t, err)
		assert.Equal(t, "Analyse verte", dto.Name)
		last := store.analyses[len(store.analyses)-1]
		require.NotNil(t, last.CreatedBy)
		assert.Equal(t, int64(2), *last.CreatedBy)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		svc := service.NewAnalysisService(newFakeAnalysisStore(t))
		_, err := svc.Create(ctx, "  ", 4, managerActor)
		require.Error(t, err)
		assert.EqualError(t, err, "Analysis name is required")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})
}
