package leads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	lead, err := repo.Create(ctx, &CreateLeadRequest{
		Name:        "Rahul",
		Phone:       "9820012345",
		Requirement: "12th science coaching",
		Source:      "chat",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, StatusNew, lead.Status)
	assert.False(t, lead.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rahul", got.Name)
}

func TestInMemoryRepository_CreateRejectsEmptyLead(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.Create(context.Background(), &CreateLeadRequest{Source: "chat"})
	assert.ErrorIs(t, err, ErrEmptyLead)
}

func TestInMemoryRepository_GetByIDNotFound(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestInMemoryRepository_ListNewestFirst(t *testing.T) {
	repo := NewSeededRepository()

	list, err := repo.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Amit Gupta", list[0].Name)
	assert.Equal(t, "Priya Verma", list[1].Name)
	assert.Equal(t, "Rahul Sharma", list[2].Name)
}

func TestInMemoryRepository_ListStatusFilter(t *testing.T) {
	repo := NewSeededRepository()

	list, err := repo.List(context.Background(), ListFilter{Status: StatusContacted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Priya Verma", list[0].Name)
}

func TestInMemoryRepository_ListPaging(t *testing.T) {
	repo := NewSeededRepository()
	ctx := context.Background()

	list, err := repo.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = repo.List(ctx, ListFilter{Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rahul Sharma", list[0].Name)

	list, err = repo.List(ctx, ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInMemoryRepository_UpdateStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	lead, err := repo.Create(ctx, &CreateLeadRequest{Name: "Rahul", Source: "chat"})
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, lead.ID, StatusContacted)
	require.NoError(t, err)
	assert.Equal(t, StatusContacted, updated.Status)

	_, err = repo.UpdateStatus(ctx, lead.ID, Status("Lost"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = repo.UpdateStatus(ctx, "missing", StatusClosed)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestInMemoryRepository_ListCopiesLeads(t *testing.T) {
	repo := NewSeededRepository()

	list, _ := repo.List(context.Background(), ListFilter{})
	list[0].Name = "mutated"

	again, _ := repo.List(context.Background(), ListFilter{})
	assert.NotEqual(t, "mutated", again[0].Name)
}

func TestFromCandidate_Fallbacks(t *testing.T) {
	req := FromCandidate("", "")
	assert.Equal(t, "Anonymous", req.Name)
	assert.Equal(t, "Unknown", req.Phone)
	assert.Equal(t, "No details provided", req.Requirement)
	assert.Equal(t, "chat", req.Source)

	req = FromCandidate("Rahul", "12th science")
	assert.Equal(t, "Rahul", req.Name)
	assert.Equal(t, "12th science", req.Requirement)
}
