// Package seed fills an empty database with demo accounts: one
// administrator plus a batch of generated users. Generation is seeded with a
// fixed value so every fresh environment gets the same data set.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbalakin/userman/internal/common"
	"github.com/dbalakin/userman/internal/logging"
	"github.com/dbalakin/userman/internal/server/models"
	"github.com/dbalakin/userman/internal/server/repositories/unitofwork"
)

const (
	fakerSeed = 123

	// AdminUserName is the bootstrap administrator account. Its password
	// is DemoPassword, like every other seeded account.
	AdminUserName = "admin"

	// DemoPassword is shared by all seeded accounts. Demo data only.
	DemoPassword = "Password123!"
)

var (
	genders       = []string{"Male", "Female"}
	maritalStates = []string{"Single", "Married", "Divorced", "Widowed"}
)

// Seeder populates the store once. A non-empty users table disables it.
type Seeder struct {
	uow    unitofwork.Factory
	count  int
	logger logging.Logger
}

func NewSeeder(uow unitofwork.Factory, count int, logger logging.Logger) *Seeder {
	return &Seeder{uow: uow, count: count, logger: logger.With("module", "seed")}
}

// Run generates and stores the demo accounts. It is a no-op when users
// already exist, so restarting the server never duplicates data.
func (s *Seeder) Run(ctx context.Context) error {
	uow, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}
	defer uow.Close()

	existing, err := uow.Users().GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error checking existing users: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info(ctx, "users exist, skipping demo seed", "count", len(existing))
		return nil
	}

	users, err := Generate(s.count)
	if err != nil {
		return err
	}

	if err := uow.Users().AddRange(ctx, users); err != nil {
		return fmt.Errorf("error seeding users: %w", err)
	}

	s.logger.Info(ctx, "seeded demo users", "count", len(users))
	return nil
}

// Generate produces the administrator plus count generated users. The same
// count always yields the same users.
func Generate(count int) ([]models.User, error) {
	// one hash for the shared demo password, bcrypt is too slow per-user
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	faker := gofakeit.New(fakerSeed)
	createdAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	users := make([]models.User, 0, count+1)
	users = append(users, models.User{
		ID:           faker.UUID(),
		UserName:     AdminUserName,
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         common.AdministratorRole,
		Name:         "Administrator",
		CreatedAt:    createdAt,
	})

	for i := 0; i < count; i++ {
		users = append(users, models.User{
			ID:            faker.UUID(),
			UserName:      fmt.Sprintf("%s%d", faker.Username(), i),
			Email:         faker.Email(),
			PasswordHash:  string(hash),
			Role:          common.DefaultRole,
			Name:          faker.Name(),
			Age:           faker.Number(18, 65),
			Gender:        faker.RandomString(genders),
			MaritalStatus: faker.RandomString(maritalStates),
			Location:      faker.City(),
			PhoneNumber:   faker.Phone(),
			CreatedAt:     createdAt,
		})
	}

	return users, nil
}
