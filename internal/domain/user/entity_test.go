//go:build unit

package user_test

import (
	"testing"

	"worklab/internal/domain/user"
	"worklab/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("basic construction", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("alice@example.com")
		role, _ := user.NewRole("user")
		expected := user.NewUser("Alice Example", email, "hashed_password", "", "engineering", role)

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Equal(t, "engineering", actual.Department())
	})

	t.Run("email validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid email accepted",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "empty email rejected",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "missing domain rejected",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("alice@") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "whitespace rejected",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("a lice@example.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})
	})

	t.Run("role validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "user role accepted",
				mutate: func(b *builder.UserBuilder) { b.WithRole("user") },
			},
			{
				name:   "admin role accepted",
				mutate: func(b *builder.UserBuilder) { b.AsAdmin() },
			},
			{
				name:   "unknown role rejected",
				mutate: func(b *builder.UserBuilder) { b.WithRole("superuser") },
				errIs:  user.ErrInvalidRole,
			},
		})
	})
}

func TestEmailNormalization(t *testing.T) {
	email, err := user.NewEmail("  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", email.String())
}

func TestCanManage(t *testing.T) {
	owner, err := builder.NewUserBuilder().BuildDomain()
	require.NoError(t, err)
	other, err := builder.NewUserBuilder().WithEmail("bob@example.com").BuildDomain()
	require.NoError(t, err)
	admin, err := builder.NewUserBuilder().WithEmail("root@example.com").AsAdmin().BuildDomain()
	require.NoError(t, err)

	assert.True(t, owner.CanManage(owner.ID()))
	assert.False(t, other.CanManage(owner.ID()))
	assert.True(t, admin.CanManage(owner.ID()))
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewUserBuilder()
			tc.mutate(b)
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, actual)
		})
	}
}
