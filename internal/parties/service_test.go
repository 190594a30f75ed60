package parties

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khata-erp/khata-erp/internal/shared"
)

type mockRepository struct {
	parties      map[int64]*Party
	profile      *BusinessProfile
	nextID       int64
	profileError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{parties: make(map[int64]*Party), nextID: 1}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Party, error) {
	p, ok := m.parties[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (m *mockRepository) List(ctx context.Context, kind PartyKind) ([]Party, error) {
	var out []Party
	for _, p := range m.parties {
		if kind != "" && p.Kind != kind {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRepository) Create(ctx context.Context, party Party) (int64, error) {
	id := m.nextID
	m.nextID++
	party.ID = id
	m.parties[id] = &party
	return id, nil
}

func (m *mockRepository) GetProfile(ctx context.Context) (*BusinessProfile, error) {
	if m.profileError != nil {
		return nil, m.profileError
	}
	if m.profile == nil {
		return nil, shared.ErrNotFound
	}
	return m.profile, nil
}

func (m *mockRepository) SaveProfile(ctx context.Context, profile BusinessProfile) error {
	m.profile = &profile
	return nil
}

func TestServiceStates(t *testing.T) {
	repo := newMockRepository()
	repo.profile = &BusinessProfile{ID: 1, Name: "Khata Traders", State: "Karnataka"}
	svc := NewService(repo, nil)

	id, err := repo.Create(context.Background(), Party{Kind: KindCustomer, Name: "Acme", State: "Maharashtra"})
	require.NoError(t, err)

	business, party := svc.States(context.Background(), id)
	assert.Equal(t, "Karnataka", business)
	assert.Equal(t, "Maharashtra", party)
}

func TestServiceStatesDegradeToEmpty(t *testing.T) {
	t.Run("missing profile and party", func(t *testing.T) {
		svc := NewService(newMockRepository(), nil)
		business, party := svc.States(context.Background(), 42)
		assert.Empty(t, business)
		assert.Empty(t, party)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := newMockRepository()
		repo.profileError = errors.New("pg down")
		svc := NewService(repo, nil)
		business, party := svc.States(context.Background(), 0)
		assert.Empty(t, business)
		assert.Empty(t, party)
	})
}

func TestServiceUpdateProfileCreatesRecord(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil)

	name := "Khata Traders"
	state := "Karnataka"
	profile, err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{Name: &name, State: &state})
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.ID)
	assert.Equal(t, "Karnataka", profile.State)

	// A later partial update keeps earlier fields.
	gstin := "29ABCDE1234F1Z5"
	profile, err = svc.UpdateProfile(context.Background(), UpdateProfileRequest{GSTIN: &gstin})
	require.NoError(t, err)
	assert.Equal(t, "Khata Traders", profile.Name)
	require.NotNil(t, profile.GSTIN)
	assert.Equal(t, gstin, *profile.GSTIN)
}
