package users

import (
	"context"
	"database/sql"
	"errors"
	"medmarket-service/internal/app/contracts"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/app/services/shared/transactor"
	"medmarket-service/internal/pkg/exceptions"
	"medmarket-service/internal/pkg/queries"
	"sync"

	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code raised by the users.email unique index.
const uniqueViolation = "23505"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type userPostgresRepository struct {
	DB *sql.DB
}

var (
	userPostgresRepositoryInstance contracts.UserRepository
	onceUserPostgresRepository     sync.Once
)

func NewUserPostgresRepository(db *sql.DB) contracts.UserRepository {
	onceUserPostgresRepository.Do(func() {
		userPostgresRepositoryInstance = &userPostgresRepository{
			DB: db,
		}
	})
	return userPostgresRepositoryInstance
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user       models.User
		providerID sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&providerID,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if providerID.Valid {
		user.ProviderID = &providerID.String
	}
	return &user, nil
}

func (repo *userPostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user, err := scanUser(transactor.Conn(ctx, repo.DB).QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return user, nil
}

func (repo *userPostgresRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return repo.findOne(ctx, queries.FindUserByID, userID)
}

func (repo *userPostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return repo.findOne(ctx, queries.FindUserByEmail, email)
}

func (repo *userPostgresRepository) Create(ctx context.Context, user *models.User) error {
	_, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.InsertUser,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.ProviderID,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return exceptions.ErrEmailAlreadyExist(err)
		}
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *userPostgresRepository) List(ctx context.Context, role string, limit, offset int) ([]models.User, int, error) {
	conn := transactor.Conn(ctx, repo.DB)

	var total int
	if err := conn.QueryRowContext(ctx, queries.CountUsers, role).Scan(&total); err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}

	rows, err := conn.QueryContext(ctx, queries.FindUsers, role, limit, offset)
	if err != nil {
		return nil, 0, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, exceptions.ErrPostgresDBFindData(err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return users, total, nil
}

func (repo *userPostgresRepository) UpdateActive(ctx context.Context, userID string, isActive bool) error {
	if _, err := transactor.Conn(ctx, repo.DB).ExecContext(ctx, queries.UpdateUserActive, userID, isActive); err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
