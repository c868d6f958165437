package user

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	coreuser "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/transport"
)

type ServiceAPI interface {
	Register(ctx context.Context, req RegisterRequest, avatar *Upload) (*User, error)
	GetProfile(ctx context.Context, actor *coreuser.Actor) (*User, error)
	UpdateProfile(ctx context.Context, actor *coreuser.Actor, req ProfileUpdateRequest, avatar *Upload) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// Register accepts JSON or a multipart form with an optional "avatar" file.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var (
		req    RegisterRequest
		avatar *Upload
	)

	if transport.IsMultipart(r) {
		if err := h.ParseMultipart(w, r); err != nil {
			h.WriteAppError(w, r, err)
			return
		}
		req = RegisterRequest{
			Username:   r.FormValue("username"),
			Password:   r.FormValue("password"),
			Email:      r.FormValue("email"),
			FirstName:  r.FormValue("first_name"),
			LastName:   r.FormValue("last_name"),
			Phone:      r.FormValue("phone"),
			Department: r.FormValue("department"),
			Position:   r.FormValue("position"),
		}
		upload, closeFn := formAvatar(r)
		defer closeFn()
		avatar = upload
	} else if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	u, err := h.Service.Register(r.Context(), req, avatar)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusCreated, "Your account has been created! You can now log in.", u.ToResponse())
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	u, err := h.Service.GetProfile(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u.ToResponse())
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := internal.ActorFromContext(r.Context())

	var (
		req    ProfileUpdateRequest
		avatar *Upload
	)

	if transport.IsMultipart(r) {
		if err := h.ParseMultipart(w, r); err != nil {
			h.WriteAppError(w, r, err)
			return
		}
		req = profileRequestFromForm(r)
		upload, closeFn := formAvatar(r)
		defer closeFn()
		avatar = upload
	} else if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), actor, req, avatar)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	h.WriteMessage(w, http.StatusOK, "Your profile has been updated!", u.ToResponse())
}

func formAvatar(r *http.Request) (*Upload, func()) {
	file, header, err := r.FormFile("avatar")
	if err != nil {
		return nil, func() {}
	}
	return &Upload{Reader: file, FileName: header.Filename}, func() { file.Close() }
}

func profileRequestFromForm(r *http.Request) ProfileUpdateRequest {
	values := r.MultipartForm.Value
	field := func(name string) *string {
		v, ok := values[name]
		if !ok || len(v) == 0 {
			return nil
		}
		return &v[0]
	}

	req := ProfileUpdateRequest{
		FirstName:         field("first_name"),
		LastName:          field("last_name"),
		Email:             field("email"),
		Phone:             field("phone"),
		Department:        field("department"),
		Position:          field("position"),
		NotificationEmail: field("notification_email"),
	}
	if raw := field("is_manager"); raw != nil {
		if b, err := strconv.ParseBool(*raw); err == nil {
			req.IsManager = &b
		}
	}
	return req
}
