package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "taskmind.com/taskmind/internal/data_models"
	"taskmind.com/taskmind/internal/http/validators"
	"taskmind.com/taskmind/pkg/exceptions"
)

const imageFormField = "image"

func (h *Handler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	in, err := validators.ValidateRegisterRequest(&req)
	if err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, dto.NewSessionResponse(res))
}

func (h *Handler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := validators.ValidateLoginRequest(&req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) GetProfile(c echo.Context) error {
	profile, err := h.authService.Profile(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.authService.UpdateProfile(c.Request().Context(), caller(c), validators.ValidateUpdateProfileRequest(&req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewSessionResponse(res))
}

func (h *Handler) UploadImage(c echo.Context) error {
	if h.uploadMaxBytes > 0 {
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, h.uploadMaxBytes)
	}

	fh, err := c.FormFile(imageFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return exceptions.Validation("file too large", map[string]string{imageFormField: "exceeds upload limit"})
		}
		return exceptions.Validation("no file uploaded", map[string]string{imageFormField: "required"})
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	res, err := h.authService.UploadImage(fh.Filename, src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
