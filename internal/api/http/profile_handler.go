package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/service"
)

const pictureField = "picture"

type volunteerProfileRequest struct {
	DisplayName       *string `json:"displayName" validate:"omitempty,max=100"`
	AboutMe           *string `json:"aboutMe" validate:"omitempty,max=500"`
	ProfilePictureURL *string `json:"profilePictureUrl" validate:"omitempty,max=2048"`
}

type organizationProfileRequest struct {
	OrganizationName *string `json:"organizationName" validate:"omitempty,max=200"`
	Mission          *string `json:"mission" validate:"omitempty,max=2000"`
	LogoURL          *string `json:"logoUrl" validate:"omitempty,max=2048"`
	ContactEmail     *string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone     *string `json:"contactPhone" validate:"omitempty,max=50"`
	Website          *string `json:"website" validate:"omitempty,url"`
	Address          *string `json:"address" validate:"omitempty,max=500"`
}

type ProfileHandler struct {
	profileSvc service.ProfileService
	mediaSvc   service.MediaService
	maxUpload  int64
}

func NewProfileHandler(profileSvc service.ProfileService, mediaSvc service.MediaService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, mediaSvc: mediaSvc, maxUpload: maxUpload}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.profileSvc.GetProfile(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, view)
}

func (h *ProfileHandler) UpdateVolunteer(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req volunteerProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profileSvc.UpdateVolunteerProfile(r.Context(), caller, service.VolunteerProfileUpdate{
		DisplayName:       req.DisplayName,
		AboutMe:           req.AboutMe,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Profile updated", map[string]any{"profile": p})
}

func (h *ProfileHandler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req organizationProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.profileSvc.UpdateOrganizationProfile(r.Context(), caller, service.OrganizationProfileUpdate{
		OrganizationName: req.OrganizationName,
		Mission:          req.Mission,
		LogoURL:          req.LogoURL,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		Website:          req.Website,
		Address:          req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Profile updated", map[string]any{"profile": p})
}

// UploadPicture accepts a multipart image and sets it as avatar or logo.
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	caller, err := CallerFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+maxBodyBytes)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, r, domain.ErrUnsupportedMedia.WithMessage("Upload must be a multipart form within the size limit"))
		return
	}
	file, header, err := r.FormFile(pictureField)
	if err != nil {
		writeError(w, r, domain.NewValidationError([]domain.FieldError{{Field: pictureField, Message: "An image file is required"}}))
		return
	}
	defer file.Close()

	url, err := h.mediaSvc.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.profileSvc.SetPicture(r.Context(), caller, url)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "Picture updated", view)
}

func (h *ProfileHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.profileSvc.GetOrganization(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, map[string]any{"organization": org})
}

// ServeMedia streams a stored upload.
func (h *ProfileHandler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.mediaSvc.Open(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		logger.WarnContext(r.Context(), "Failed to stream media", "error", err)
	}
}
