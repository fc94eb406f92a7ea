package dto

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"

	"github.com/IEC2025/UeabInnovationHub-sub000/pkg/validator"
)

const (
	ValidationFailed = "Validation error"
	InternalError    = "Service is currently unavailable. Please try again later."
	InvalidJSON      = "Invalid JSON format"
	Unauthorized     = "Unauthorized"

	RegistrationSubmitted = "Registration submitted successfully. Our team will contact you shortly."
	ContactSubmitted      = "Thank you for your message. We will get back to you soon."
	NewsletterSubscribed  = "Successfully subscribed to the newsletter."
	AlreadySubscribed     = "This email is already subscribed."
	RegistrationNotFound  = "Registration not found"
	ContactNotFound       = "Contact message not found"
	InvalidID             = "Invalid id"
)

type Response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Errors  []validator.FieldError `json:"errors,omitempty"`
	Data    any                    `json:"data,omitempty"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func ValidationError(c *ginext.Context, errs []validator.FieldError) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: ValidationFailed,
		Errors:  errs,
	})
}

func BadJSONError(c *ginext.Context) {
	ValidationError(c, []validator.FieldError{{Field: "body", Message: InvalidJSON}})
}

func BadRequestError(c *ginext.Context, field, desc string) {
	ValidationError(c, []validator.FieldError{{Field: field, Message: desc}})
}

func NotFoundError(c *ginext.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Success: false, Message: msg})
}

func ConflictError(c *ginext.Context, msg string) {
	c.JSON(http.StatusConflict, Response{Success: false, Message: msg})
}

func UnauthorizedError(c *ginext.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{Success: false, Message: Unauthorized})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(http.StatusInternalServerError, Response{Success: false, Message: InternalError})
}

func SuccessCreatedResponse(c *ginext.Context, msg string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: msg, Data: data})
}
