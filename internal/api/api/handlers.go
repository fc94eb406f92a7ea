package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/auth"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/dto"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
	"github.com/IEC2025/UeabInnovationHub-sub000/internal/service"
	"github.com/IEC2025/UeabInnovationHub-sub000/pkg/validator"
)

type Handler struct {
	svc  service.Service
	auth *auth.Authenticator
	log  *zerolog.Logger
}

func (h *Handler) CreateRegistration(c *ginext.Context) {
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadJSONError(c)
		return
	}

	reg, err := h.svc.CreateRegistration(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, dto.RegistrationSubmitted, reg)
}

func (h *Handler) ListRegistrations(c *ginext.Context) {
	f, ok := registrationFilter(c)
	if !ok {
		return
	}

	regs, err := h.svc.ListRegistrations(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, regs)
}

func (h *Handler) GetRegistration(c *ginext.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	reg, err := h.svc.GetRegistration(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *Handler) SetRegistrationStatus(c *ginext.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadJSONError(c)
		return
	}

	reg, err := h.svc.SetRegistrationStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *Handler) ExportRegistrations(c *ginext.Context) {
	f, ok := registrationFilter(c)
	if !ok {
		return
	}

	report, err := h.svc.ExportRegistrations(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", report.Data)
}

func (h *Handler) SubmitContact(c *ginext.Context) {
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadJSONError(c)
		return
	}

	msg, err := h.svc.SubmitContact(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, dto.ContactSubmitted, msg)
}

func (h *Handler) ListContacts(c *ginext.Context) {
	limit, offset, ok := paging(c)
	if !ok {
		return
	}
	f := model.ContactFilter{
		UnreadOnly: c.Query("unread") == "true",
		Limit:      limit,
		Offset:     offset,
	}

	msgs, err := h.svc.ListContacts(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) MarkContactRead(c *ginext.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	msg, err := h.svc.MarkContactRead(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *Handler) Subscribe(c *ginext.Context) {
	var req dto.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadJSONError(c)
		return
	}

	sub, err := h.svc.Subscribe(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, dto.NewsletterSubscribed, sub)
}

func (h *Handler) ListSubscribers(c *ginext.Context) {
	subs, err := h.svc.ListSubscribers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *Handler) Login(c *ginext.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadJSONError(c)
		return
	}
	req.Normalize()
	if err := validator.Validate(c.Request.Context(), req); err != nil {
		var fields validator.Errors
		if errors.As(err, &fields) {
			dto.ValidationError(c, fields)
			return
		}
		dto.InternalServerError(c)
		return
	}

	token, expires, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		h.log.Warn().Str("username", req.Username).Msg("admin login rejected")
		dto.UnauthorizedError(c)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, ExpiresAt: expires})
}

// writeError maps the service error taxonomy onto HTTP responses. Only
// unexpected failures are logged as server faults.
func (h *Handler) writeError(c *ginext.Context, err error) {
	var (
		verr     *service.ValidationError
		notFound *service.NotFoundError
		conflict *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		dto.ValidationError(c, verr.Fields)
	case errors.As(err, &notFound):
		msg := dto.RegistrationNotFound
		if notFound.Entity != "registration" {
			msg = dto.ContactNotFound
		}
		dto.NotFoundError(c, msg)
	case errors.As(err, &conflict):
		dto.ConflictError(c, dto.AlreadySubscribed)
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		dto.InternalServerError(c)
	}
}

func registrationFilter(c *ginext.Context) (model.RegistrationFilter, bool) {
	limit, offset, ok := paging(c)
	if !ok {
		return model.RegistrationFilter{}, false
	}
	return model.RegistrationFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Status: model.Status(strings.TrimSpace(c.Query("status"))),
		Type:   model.RegistrationType(strings.TrimSpace(c.Query("type"))),
		Limit:  limit,
		Offset: offset,
	}, true
}

func paging(c *ginext.Context) (limit, offset int, ok bool) {
	var errs validator.Errors
	parse := func(name string) int {
		raw := c.Query(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, validator.FieldError{Field: name, Message: validator.ErrInvalidFormat})
			return 0
		}
		return n
	}
	limit = parse("limit")
	offset = parse("offset")
	if len(errs) > 0 {
		dto.ValidationError(c, errs)
		return 0, 0, false
	}
	return limit, offset, true
}

func pathID(c *ginext.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		dto.BadRequestError(c, "id", dto.InvalidID)
		return 0, false
	}
	return id, true
}
