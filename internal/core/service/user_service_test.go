package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

func newUserSvc() (*UserService, *memStore) {
	store := newMemStore()
	return NewUserService(stubUserRepo{store}, stubJobRepo{store}, stubApplicantRepo{store}, zerolog.Nop()), store
}

func TestUserService_Stats_ExcludesRequester(t *testing.T) {
	svc, store := newUserSvc()
	admin := store.addUser("Root", domain.RoleAdmin)
	p1 := store.addUser("P1", domain.RoleProvider)
	store.addUser("P2", domain.RoleProvider)
	s1 := store.addUser("S1", domain.RoleSeeker)
	j := store.addJob(p1, "Backend")
	store.addApplicant(s1, j, domain.AppliedStatus(fixedNow))

	stats, err := svc.Stats(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, ports.AdminStats{JobCount: 1, ProviderCount: 2, ApplicantCount: 1, SeekerCount: 1}, *stats)
}

func TestUserService_Stats_StoreFailure(t *testing.T) {
	svc, store := newUserSvc()
	store.failOn["jobs.List"] = errStoreDown

	_, err := svc.Stats(context.Background(), "admin")
	require.ErrorIs(t, err, errStoreDown)
}

func TestUserService_Edit(t *testing.T) {
	svc, store := newUserSvc()
	admin := store.addUser("Root", domain.RoleAdmin)
	u := store.addUser("Dana", domain.RoleSeeker)

	err := svc.Edit(context.Background(), admin.ID, admin.ID, ports.EditUserInput{Name: "Me"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Cannot edit the current User", err.Error())

	require.NoError(t, svc.Edit(context.Background(), u.ID, admin.ID, ports.EditUserInput{Name: "Dana K", Role: domain.RoleProvider}))
	assert.Equal(t, "Dana K", store.users[u.ID].Name)
	assert.Equal(t, domain.RoleProvider, store.users[u.ID].Role)

	err = svc.Edit(context.Background(), "user-404", admin.ID, ports.EditUserInput{Name: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Edit(context.Background(), u.ID, admin.ID, ports.EditUserInput{Role: "Superuser"})
	require.ErrorIs(t, err, domain.ErrInvalid)
}

func TestUserService_CreateAndList(t *testing.T) {
	svc, store := newUserSvc()
	admin := store.addUser("Root", domain.RoleAdmin)

	created, err := svc.Create(context.Background(), ports.SignupInput{Name: "Ops", Email: "ops@example.com", Password: "pw", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, created.Role)

	users, err := svc.List(context.Background(), admin.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, created.ID, users[0].ID)

	_, err = svc.Get(context.Background(), "user-404")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	svc, store := newUserSvc()

	created, err := svc.EnsureAdmin(context.Background(), "Root", " Root@Example.com ", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := stubUserRepo{store}.FindByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NotEqual(t, "changeme", admin.PasswordHash)

	created, err = svc.EnsureAdmin(context.Background(), "Root", "root@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, store.users, 1)
}
