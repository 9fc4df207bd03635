package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/repository"
	"github.com/nanohana/tsuzuri/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo repository.UsersRepositoryI
}

func NewUserService(usersRepo repository.UsersRepositoryI) *UserService {
	return &UserService{
		repo: usersRepo,
	}
}

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (us *UserService) Register(ctx context.Context, req *RegisterRequest) (*entity.User, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	passwordHash, err := Hash(req.Password)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	err = us.repo.Create(ctx, &entity.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) || errors.Is(err, errorvalues.ErrEmailExists) {
			return nil, err
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	user, err := us.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	user, err := us.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errorvalues.ErrWrongCredentials
	}
	return user, nil
}

func (us *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) Search(ctx context.Context, query string, searcher uuid.UUID, pagination PaginationOpts) ([]*entity.User, error) {
	users, err := us.repo.Search(ctx, query, searcher, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return users, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *UpdateProfileRequest) (*entity.User, error) {
	err := validate.Struct(*req)
	if err != nil {
		if validationError, ok := err.(validator.ValidationErrors); ok {
			err = errors.New("validation error: ")
			for _, fieldErr := range validationError {
				err = errors.Join(err, fieldErr)
			}
			return nil, err
		}
		return nil, errors.New("validation unexpected error: " + err.Error())
	}
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil && *req.Email != user.Email {
		owner, err := us.repo.FindByEmail(ctx, *req.Email)
		if err == nil && owner.ID != id {
			return nil, errorvalues.ErrEmailExists
		}
		if err != nil && !errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, errors.New("repository searching error: " + err.Error())
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		passwordHash, err := Hash(*req.Password)
		if err != nil {
			return nil, errors.New("hashing password error: " + err.Error())
		}
		user.PasswordHash = passwordHash
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = *req.ProfileImageURL
	}
	err = us.repo.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserExists),
			errors.Is(err, errorvalues.ErrEmailExists),
			errors.Is(err, errorvalues.ErrUserNotFound):
			return nil, err
		}
		return nil, errors.New("repository updating error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) DeleteAccount(ctx context.Context, id uuid.UUID, password string) error {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository searching error: " + err.Error())
	}
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return errorvalues.ErrWrongCredentials
	}
	err = us.repo.Delete(ctx, user.ID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("repository deletion error: " + err.Error())
	}
	return nil
}
