package repository_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/sakashimaa/planary/internal/domain"
	"github.com/sakashimaa/planary/internal/repository"
)

func strPtr(s string) *string { return &s }

func (s *RepositoryTestSuite) newActivity(ownerID uuid.UUID, title string, mutate func(*domain.Activity)) *domain.Activity {
	activity := &domain.Activity{
		UserID:          ownerID,
		Date:            time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Title:           title,
		Status:          domain.StatusNormal,
		RemindOffsetMin: 5,
	}
	if mutate != nil {
		mutate(activity)
	}

	created, err := s.ActivityRepo.Create(s.Ctx, activity)
	s.Require().NoError(err)
	s.Require().NotZero(created.ID)

	return created
}

func (s *RepositoryTestSuite) TestActivityRoundTrip() {
	owner := s.newUser("alice@example.com", "alice")

	created := s.newActivity(owner.ID, "dentist", func(a *domain.Activity) {
		a.Time = strPtr("09:30")
		a.Category = strPtr("health")
		a.Remind = true
		a.RemindOffsetMin = 15
	})

	fetched, err := s.ActivityRepo.GetByID(s.Ctx, owner.ID, created.ID)
	s.Require().NoError(err)
	s.Equal("dentist", fetched.Title)
	s.Require().NotNil(fetched.Time)
	s.Equal("09:30", *fetched.Time)
	s.Require().NotNil(fetched.Category)
	s.Equal("health", *fetched.Category)
	s.True(fetched.Remind)
	s.Equal(15, fetched.RemindOffsetMin)
}

func (s *RepositoryTestSuite) TestGetForeignActivity() {
	alice := s.newUser("alice@example.com", "alice")
	bob := s.newUser("bob@example.com", "bob")

	created := s.newActivity(alice.ID, "dentist", nil)

	_, err := s.ActivityRepo.GetByID(s.Ctx, bob.ID, created.ID)
	s.Require().ErrorIs(err, repository.ErrActivityNotFound)
}

func (s *RepositoryTestSuite) TestUpdateActivity() {
	owner := s.newUser("alice@example.com", "alice")

	created := s.newActivity(owner.ID, "dentist", func(a *domain.Activity) {
		a.Time = strPtr("09:30")
	})

	created.Title = "dentist rescheduled"
	created.Time = strPtr("14:00")
	created.Status = domain.StatusWarning

	updated, err := s.ActivityRepo.Update(s.Ctx, created)
	s.Require().NoError(err)
	s.Equal("dentist rescheduled", updated.Title)
	s.Require().NotNil(updated.Time)
	s.Equal("14:00", *updated.Time)
	s.Equal(domain.StatusWarning, updated.Status)
}

func (s *RepositoryTestSuite) TestUpdateForeignActivity() {
	alice := s.newUser("alice@example.com", "alice")
	bob := s.newUser("bob@example.com", "bob")

	created := s.newActivity(alice.ID, "dentist", nil)
	created.UserID = bob.ID
	created.Title = "hijacked"

	_, err := s.ActivityRepo.Update(s.Ctx, created)
	s.Require().ErrorIs(err, repository.ErrActivityNotFound)
}

func (s *RepositoryTestSuite) TestDeleteActivity() {
	owner := s.newUser("alice@example.com", "alice")
	created := s.newActivity(owner.ID, "dentist", nil)

	s.Require().NoError(s.ActivityRepo.Delete(s.Ctx, owner.ID, created.ID))

	_, err := s.ActivityRepo.GetByID(s.Ctx, owner.ID, created.ID)
	s.Require().ErrorIs(err, repository.ErrActivityNotFound)

	err = s.ActivityRepo.Delete(s.Ctx, owner.ID, created.ID)
	s.Require().ErrorIs(err, repository.ErrActivityNotFound)
}

func (s *RepositoryTestSuite) TestDeleteForeignActivity() {
	alice := s.newUser("alice@example.com", "alice")
	bob := s.newUser("bob@example.com", "bob")

	created := s.newActivity(alice.ID, "dentist", nil)

	err := s.ActivityRepo.Delete(s.Ctx, bob.ID, created.ID)
	s.Require().ErrorIs(err, repository.ErrActivityNotFound)

	_, err = s.ActivityRepo.GetByID(s.Ctx, alice.ID, created.ID)
	s.Require().NoError(err)
}

func (s *RepositoryTestSuite) TestListOrdering() {
	owner := s.newUser("alice@example.com", "alice")

	s.newActivity(owner.ID, "late meeting", func(a *domain.Activity) {
		a.Time = strPtr("18:00")
	})
	s.newActivity(owner.ID, "no clock", nil)
	s.newActivity(owner.ID, "conference", func(a *domain.Activity) {
		a.AllDay = true
	})
	s.newActivity(owner.ID, "early run", func(a *domain.Activity) {
		a.Time = strPtr("06:00")
	})

	activities, err := s.ActivityRepo.ListByOwner(s.Ctx, owner.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(activities, 4)

	s.Equal("conference", activities[0].Title)
	s.Equal("early run", activities[1].Title)
	s.Equal("late meeting", activities[2].Title)
	s.Equal("no clock", activities[3].Title)
}

func (s *RepositoryTestSuite) TestListByDate() {
	owner := s.newUser("alice@example.com", "alice")

	s.newActivity(owner.ID, "dentist", nil)
	s.newActivity(owner.ID, "standup", func(a *domain.Activity) {
		a.Date = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	})

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	activities, err := s.ActivityRepo.ListByOwner(s.Ctx, owner.ID, &day)
	s.Require().NoError(err)
	s.Require().Len(activities, 1)
	s.Equal("dentist", activities[0].Title)
}

func (s *RepositoryTestSuite) TestListScopedToOwner() {
	alice := s.newUser("alice@example.com", "alice")
	bob := s.newUser("bob@example.com", "bob")

	s.newActivity(alice.ID, "dentist", nil)
	s.newActivity(bob.ID, "gym", nil)

	activities, err := s.ActivityRepo.ListByOwner(s.Ctx, alice.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(activities, 1)
	s.Equal("dentist", activities[0].Title)
}

func (s *RepositoryTestSuite) TestCascadeDelete() {
	owner := s.newUser("alice@example.com", "alice")
	created := s.newActivity(owner.ID, "dentist", nil)

	_, err := s.DbPool.Exec(s.Ctx, "DELETE FROM users WHERE id = $1", owner.ID)
	s.Require().NoError(err)

	_, err = s.ActivityRepo.GetByID(s.Ctx, owner.ID, created.ID)
	s.Require().ErrorIs(err, repository.ErrActivityNotFound)
}
