package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zzafergok/mobiversite-ecommerce/gateway"
	"github.com/zzafergok/mobiversite-ecommerce/models"
)

// AuthService is the identity boundary: it checks credentials against the
// gateway and issues bearer tokens. Every returned user has its password
// stripped.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.User, string, *ServiceError)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, *ServiceError)
	Me(ctx context.Context, token string) (*models.User, *ServiceError)
	UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.User, string, *ServiceError)
}

type authServiceImpl struct {
	gw       gateway.Gateway
	tokens   *TokenService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthService(gw gateway.Gateway, tokens *TokenService, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		gw:       gw,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger,
	}
}

var (
	errMissingCredentials = &ServiceError{StatusCode: http.StatusBadRequest, Message: "Username and password are required"}
	errBadCredentials     = &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid username or password"}
	errMissingFields      = &ServiceError{StatusCode: http.StatusBadRequest, Message: "All fields are required"}
	errInvalidEmail       = &ServiceError{StatusCode: http.StatusBadRequest, Message: "Please enter a valid email address"}
	errUsernameTaken      = &ServiceError{StatusCode: http.StatusConflict, Message: "This username is already taken"}
	errEmailTaken         = &ServiceError{StatusCode: http.StatusConflict, Message: "This email address is already in use"}
	errUnauthorized       = &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"}
	errUserNotFound       = &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
)

func internalError(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: msg}
}

func (s *authServiceImpl) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, *ServiceError) {
	if req.Username == "" || req.Password == "" {
		return nil, "", errMissingCredentials
	}

	user, err := s.gw.GetUserByCredentials(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Error("Login lookup failed", zap.Error(err))
		return nil, "", internalError("An error occurred while signing in")
	}
	if user == nil {
		return nil, "", errBadCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, "", internalError("An error occurred while signing in")
	}
	return user.Public(), token, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, *ServiceError) {
	if serr := s.validateRegistration(req); serr != nil {
		return nil, "", serr
	}

	exists, err := s.gw.CheckUsernameExists(ctx, req.Username)
	if err != nil {
		s.logger.Error("Username lookup failed", zap.Error(err))
		return nil, "", internalError("An error occurred during registration")
	}
	if exists {
		return nil, "", errUsernameTaken
	}

	exists, err = s.gw.CheckEmailExists(ctx, req.Email)
	if err != nil {
		s.logger.Error("Email lookup failed", zap.Error(err))
		return nil, "", internalError("An error occurred during registration")
	}
	if exists {
		return nil, "", errEmailTaken
	}

	user, err := s.gw.CreateUser(ctx, &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, "", internalError("An error occurred during registration")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, "", internalError("An error occurred during registration")
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user.Public(), token, nil
}

func (s *authServiceImpl) validateRegistration(req models.RegisterRequest) *ServiceError {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errMissingFields
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return errMissingFields
		}
	}
	return errInvalidEmail
}

func (s *authServiceImpl) Me(ctx context.Context, token string) (*models.User, *ServiceError) {
	user, serr := s.userFromToken(ctx, token)
	if serr != nil {
		return nil, serr
	}
	return user.Public(), nil
}

func (s *authServiceImpl) userFromToken(ctx context.Context, token string) (*models.User, *ServiceError) {
	if token == "" {
		return nil, errUnauthorized
	}
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid token"}
	}
	user, err := s.gw.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("User lookup failed", zap.Error(err), zap.String("user_id", userID))
		return nil, internalError("An error occurred while loading the user")
	}
	if user == nil {
		return nil, errUserNotFound
	}
	return user, nil
}

// UpdateProfile applies patch to the token's user. A new token is returned
// when the username changes so the cookie keeps matching the record.
func (s *authServiceImpl) UpdateProfile(ctx context.Context, token string, patch models.ProfilePatch) (*models.User, string, *ServiceError) {
	current, serr := s.userFromToken(ctx, token)
	if serr != nil {
		return nil, "", serr
	}

	if patch.Email != nil && *patch.Email != current.Email {
		if s.validate.Var(*patch.Email, "required,email") != nil {
			return nil, "", errInvalidEmail
		}
		exists, err := s.gw.CheckEmailExists(ctx, *patch.Email)
		if err != nil {
			s.logger.Error("Email lookup failed", zap.Error(err))
			return nil, "", internalError("An error occurred while updating the profile")
		}
		if exists {
			return nil, "", errEmailTaken
		}
	}

	if patch.Username != nil && *patch.Username != current.Username {
		if strings.TrimSpace(*patch.Username) == "" {
			return nil, "", errMissingFields
		}
		exists, err := s.gw.CheckUsernameExists(ctx, *patch.Username)
		if err != nil {
			s.logger.Error("Username lookup failed", zap.Error(err))
			return nil, "", internalError("An error occurred while updating the profile")
		}
		if exists {
			return nil, "", errUsernameTaken
		}
	}

	updated, err := s.gw.UpdateUserPartial(ctx, current.ID, patch)
	if err != nil {
		s.logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", current.ID))
		return nil, "", internalError("An error occurred while updating the profile")
	}
	if updated == nil {
		return nil, "", errUserNotFound
	}

	newToken := ""
	if patch.Username != nil {
		if newToken, err = s.tokens.Generate(updated); err != nil {
			s.logger.Error("Failed to sign token", zap.Error(err))
			return nil, "", internalError("An error occurred while updating the profile")
		}
	}
	return updated.Public(), newToken, nil
}
