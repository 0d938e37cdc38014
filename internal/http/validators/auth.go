package validators

import (
	"strings"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/services"
	"taskmind.com/taskmind/pkg/exceptions"
)

func ValidateRegisterRequest(r *dto.RegisterRequest) (services.RegisterInput, error) {
	fields := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = "required"
	}
	if r.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		return services.RegisterInput{}, exceptions.Validation("name, email and password are required", fields)
	}

	return services.RegisterInput{
		Name:             r.Name,
		Email:            r.Email,
		Password:         r.Password,
		ProfileImageURL:  r.ProfileImageURL,
		AdminInviteToken: r.AdminInviteToken,
	}, nil
}

func ValidateLoginRequest(r *dto.LoginRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = "required"
	}
	if r.Password == "" {
		fields["password"] = "required"
	}
	if len(fields) > 0 {
		return exceptions.Validation("email and password are required", fields)
	}
	return nil
}

func ValidateUpdateProfileRequest(r *dto.UpdateProfileRequest) services.ProfilePatch {
	return services.ProfilePatch{
		Name:            r.Name,
		Email:           r.Email,
		ProfileImageURL: r.ProfileImageURL,
		Password:        r.Password,
	}
}

func ValidateUpdateUserRequest(r *dto.UpdateUserRequest) services.UserPatch {
	return services.UserPatch{
		Name:            r.Name,
		Email:           r.Email,
		ProfileImageURL: r.ProfileImageURL,
	}
}
