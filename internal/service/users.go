package service

import (
	"context"
	"strings"

	"github.com/ayo6706/brokerage-admin/internal/domain"
	"github.com/ayo6706/brokerage-admin/internal/models"
	"github.com/ayo6706/brokerage-admin/internal/query"
	"github.com/ayo6706/brokerage-admin/internal/repository"
)

type UserService struct {
	*base
}

// UserStatusInput moves a user along the user state machine.
type UserStatusInput struct {
	Status domain.UserStatus `json:"status"`
	Reason string            `json:"reason,omitempty"`
	Actor  string            `json:"-"`
}

// UserUpdate holds the editable profile fields. Nil fields are left as is.
type UserUpdate struct {
	UserType         *domain.UserType `json:"userType,omitempty"`
	Phone            *string          `json:"phone,omitempty"`
	Country          *string          `json:"country,omitempty"`
	TwoFactorEnabled *bool            `json:"twoFactorEnabled,omitempty"`
	Actor            string           `json:"-"`
}

func (u UserUpdate) empty() bool {
	return u.UserType == nil && u.Phone == nil && u.Country == nil && u.TwoFactorEnabled == nil
}

func (s *UserService) List(ctx context.Context, p query.Params) (models.Page[models.User], error) {
	return list(ctx, s.base, s.store.Users, p, query.UserSchema)
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return get(ctx, s.base, s.store.Users, id)
}

func (s *UserService) ChangeStatus(ctx context.Context, id string, in UserStatusInput) (models.User, error) {
	const action = "change_status"
	if err := requireField("id", id); err != nil {
		return models.User{}, s.fail(repository.EntityUser, action, err)
	}
	if err := requireField("actor", in.Actor); err != nil {
		return models.User{}, s.fail(repository.EntityUser, action, err)
	}
	if !in.Status.Valid() {
		return models.User{}, s.fail(repository.EntityUser, action, models.NewValidationError("status", "unknown user status "+string(in.Status)))
	}

	var from domain.UserStatus
	now := s.now()
	user, err := mutate(ctx, s.base, s.store.Users, id, func(u models.User) (models.User, error) {
		if !domain.CanTransitionUser(u.Status, in.Status) {
			return u, &models.TransitionError{Entity: repository.EntityUser, ID: u.ID, From: string(u.Status), To: string(in.Status)}
		}
		from = u.Status
		u.Status = in.Status
		u.UpdatedAt = now
		return u, nil
	})
	if err != nil {
		return models.User{}, s.fail(repository.EntityUser, action, err)
	}
	s.succeed(ctx, models.AuditEntry{
		Entity: repository.EntityUser, EntityID: id, Actor: in.Actor, Action: action,
		From: string(from), To: string(user.Status), Note: strings.TrimSpace(in.Reason), At: now,
	})
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, in UserUpdate) (models.User, error) {
	const action = "update"
	if err := requireField("id", id); err != nil {
		return models.User{}, s.fail(repository.EntityUser, action, err)
	}
	if err := requireField("actor", in.Actor); err != nil {
		return models.User{}, s.fail(repository.EntityUser, action, err)
	}
	if in.empty() {
		return models.User{}, s.fail(repository.EntityUser, action, models.NewValidationError("body", "at least one field must be set"))
	}
	if in.UserType != nil && !in.UserType.Valid() {
		return models.User{}, s.fail(repository.EntityUser, action, models.NewValidationError("userType", "unknown user type "+string(*in.UserType)))
	}
	if in.Country != nil && strings.TrimSpace(*in.Country) == "" {
		return models.User{}, s.fail(repository.EntityUser, action, models.NewValidationError("country", "must not be empty"))
	}

	now := s.now()
	user, err := mutate(ctx, s.base, s.store.Users, id, func(u models.User) (models.User, error) {
		if in.UserType != nil {
			u.UserType = *in.UserType
		}
		if in.Phone != nil {
			u.Phone = strings.TrimSpace(*in.Phone)
		}
		if in.Country != nil {
			u.Country = strings.TrimSpace(*in.Country)
		}
		if in.TwoFactorEnabled != nil {
			u.TwoFactorEnabled = *in.TwoFactorEnabled
		}
		u.UpdatedAt = now
		return u, nil
	})
	if err != nil {
		return models.User{}, s.fail(repository.EntityUser, action, err)
	}
	s.succeed(ctx, models.AuditEntry{Entity: repository.EntityUser, EntityID: id, Actor: in.Actor, Action: action, At: now})
	return user, nil
}
