package repository_test

import (
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/internal/repository"
)

func (s *RepositoryTestSuite) newUser(email, username string) *domain.User {
	user, err := s.UserRepo.Create(s.Ctx, &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
	})
	s.Require().NoError(err)
	s.Require().NotZero(user.ID)
	s.Require().False(user.CreatedAt.IsZero())

	return user
}

func (s *RepositoryTestSuite) TestCreateAndGetUser() {
	created := s.newUser("alice@example.com", "alice")

	byEmail, err := s.UserRepo.GetByEmail(s.Ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(created.ID, byEmail.ID)

	byUsername, err := s.UserRepo.GetByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, byUsername.ID)

	byID, err := s.UserRepo.GetByID(s.Ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("alice@example.com", byID.Email)
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	s.newUser("alice@example.com", "alice")

	_, err := s.UserRepo.Create(s.Ctx, &domain.User{
		Email:        "alice@example.com",
		Username:     "someone_else",
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
	})
	s.Require().ErrorIs(err, repository.ErrUserAlreadyExists)
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateUsername() {
	s.newUser("alice@example.com", "alice")

	_, err := s.UserRepo.Create(s.Ctx, &domain.User{
		Email:        "other@example.com",
		Username:     "alice",
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
	})
	s.Require().ErrorIs(err, repository.ErrUserAlreadyExists)
}

func (s *RepositoryTestSuite) TestGetUserNotFound() {
	_, err := s.UserRepo.GetByEmail(s.Ctx, "ghost@example.com")
	s.Require().ErrorIs(err, repository.ErrUserNotFound)

	_, err = s.UserRepo.GetByUsername(s.Ctx, "ghost")
	s.Require().ErrorIs(err, repository.ErrUserNotFound)
}

func (s *RepositoryTestSuite) TestNullableProfileFields() {
	gender := "female"
	age := 30

	created, err := s.UserRepo.Create(s.Ctx, &domain.User{
		Email:        "carol@example.com",
		Username:     "carol",
		Gender:       &gender,
		Age:          &age,
		PasswordHash: "$2a$12$fakefakefakefakefakefake",
	})
	s.Require().NoError(err)

	fetched, err := s.UserRepo.GetByID(s.Ctx, created.ID)
	s.Require().NoError(err)
	s.Require().NotNil(fetched.Gender)
	s.Equal("female", *fetched.Gender)
	s.Require().NotNil(fetched.Age)
	s.Equal(30, *fetched.Age)

	bare := s.newUser("dave@example.com", "dave")
	fetched, err = s.UserRepo.GetByID(s.Ctx, bare.ID)
	s.Require().NoError(err)
	s.Nil(fetched.Gender)
	s.Nil(fetched.Age)
}
