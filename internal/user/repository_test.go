package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/redmonkez12/expense-api/internal/testutil"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = NewRepository(testutil.NewDB(s.T()))
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TestCreateAndLookup() {
	created, err := s.repo.Create(s.ctx, "Asha", "asha@example.com", "hash")
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)
	s.False(created.IsPremium)

	byEmail, err := s.repo.GetByEmail(s.ctx, "asha@example.com")
	s.Require().NoError(err)
	s.Equal(created.ID, byEmail.ID)
	s.Equal("Asha", byEmail.Name)
	s.Equal("hash", byEmail.PasswordHash)
	s.Nil(byEmail.ResetPasswordToken)
	s.Nil(byEmail.ResetPasswordExpire)

	byID, err := s.repo.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("asha@example.com", byID.Email)
}

func (s *RepositoryTestSuite) TestCreateDuplicateEmail() {
	_, err := s.repo.Create(s.ctx, "One", "dup@example.com", "hash")
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, "Two", "dup@example.com", "hash")
	s.ErrorIs(err, ErrDuplicateEmail)
}

func (s *RepositoryTestSuite) TestNotFound() {
	_, err := s.repo.GetByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.repo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, ErrNotFound)

	err = s.repo.SetResetToken(s.ctx, uuid.New(), "digest", time.Now().Add(time.Hour))
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositoryTestSuite) TestResetTokenLifecycle() {
	u, err := s.repo.Create(s.ctx, "Ravi", "ravi@example.com", "old-hash")
	s.Require().NoError(err)

	issuedAt := time.Now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(time.Hour)
	s.Require().NoError(s.repo.SetResetToken(s.ctx, u.ID, "digest-1", expiresAt))

	stored, err := s.repo.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Require().NotNil(stored.ResetPasswordToken)
	s.Equal("digest-1", *stored.ResetPasswordToken)
	s.Require().NotNil(stored.ResetPasswordExpire)
	s.True(expiresAt.Equal(*stored.ResetPasswordExpire))
	s.True(stored.HasPendingReset(issuedAt))

	// valid before expiry, gone after
	_, err = s.repo.GetByResetToken(s.ctx, "digest-1", issuedAt.Add(59*time.Minute))
	s.NoError(err)
	_, err = s.repo.GetByResetToken(s.ctx, "digest-1", issuedAt.Add(time.Hour+time.Second))
	s.ErrorIs(err, ErrNotFound)
	_, err = s.repo.GetByResetToken(s.ctx, "other", issuedAt)
	s.ErrorIs(err, ErrNotFound)

	// consume exactly once
	s.Require().NoError(s.repo.ConsumeResetToken(s.ctx, u.ID, "digest-1", "new-hash", issuedAt.Add(time.Minute)))
	err = s.repo.ConsumeResetToken(s.ctx, u.ID, "digest-1", "newer-hash", issuedAt.Add(2*time.Minute))
	s.ErrorIs(err, ErrNotFound)

	after, err := s.repo.GetByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("new-hash", after.PasswordHash)
	s.Nil(after.ResetPasswordToken)
	s.Nil(after.ResetPasswordExpire)
}

func (s *RepositoryTestSuite) TestNewResetTokenReplacesPending() {
	u, err := s.repo.Create(s.ctx, "Mei", "mei@example.com", "hash")
	s.Require().NoError(err)

	now := time.Now().UTC()
	s.Require().NoError(s.repo.SetResetToken(s.ctx, u.ID, "first", now.Add(time.Hour)))
	s.Require().NoError(s.repo.SetResetToken(s.ctx, u.ID, "second", now.Add(time.Hour)))

	_, err = s.repo.GetByResetToken(s.ctx, "first", now)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.repo.GetByResetToken(s.ctx, "second", now)
	s.NoError(err)
}
