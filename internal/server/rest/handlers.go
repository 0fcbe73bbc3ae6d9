package rest

import (
	"encoding/json"
	"errors"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
	"time"

	"github.com/csye-webapp/webapp/internal/common"
	"github.com/csye-webapp/webapp/internal/server/models"
	"github.com/csye-webapp/webapp/internal/server/validation"
)

// profilePicField is the multipart field carrying the image.
const profilePicField = "profilePic"

// maxUploadMemory bounds the in-memory part of a multipart upload; the
// remainder spills to temporary files.
const maxUploadMemory = 10 << 20

type userResponse struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	AccountCreated time.Time `json:"account_created"`
	AccountUpdated time.Time `json:"account_updated"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		AccountCreated: u.AccountCreated,
		AccountUpdated: u.AccountUpdated,
	}
}

type profilePicResponse struct {
	FileName   string    `json:"file_name"`
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	UploadDate time.Time `json:"upload_date"`
	UserID     string    `json:"user_id"`
}

func newProfilePicResponse(p *models.ProfilePic) profilePicResponse {
	return profilePicResponse{
		FileName:   p.FileName,
		ID:         p.ID,
		URL:        p.URL,
		UploadDate: p.UploadDate,
		UserID:     p.UserID,
	}
}

type verifyResponse struct {
	Message  string `json:"message"`
	Verified bool   `json:"verified"`
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("X-Content-Type-Options", "nosniff")

	if hasQuery(r) || hasBody(r) {
		s.logger.Warn(r.Context(), "payload or query present in health check")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := s.svc.Health.Ready(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// createUser ignores body keys other than the four registration fields.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	if hasQuery(r) {
		s.fail(w, r, common.ErrQueryParamsNotAllowed)
		return
	}

	var req registerRequest
	if err := decodeOptionalJSON(r.Body, &req); err != nil {
		s.fail(w, r, common.ErrInvalidBody.WithCause(err))
		return
	}

	user, err := s.svc.Users.Register(r.Context(), validation.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "User created successfully", "user_id", user.ID)
	writeMessage(w, http.StatusCreated, "User created successfully.")
}

func (s *Server) getUserInfo(w http.ResponseWriter, r *http.Request) {
	if hasQuery(r) || hasBody(r) {
		s.fail(w, r, common.ErrQueryOrBodyNotAllowed)
		return
	}

	current, _ := UserFromContext(r.Context())
	user, err := s.svc.Users.GetSelf(r.Context(), current.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	if hasQuery(r) {
		s.fail(w, r, common.ErrQueryParamsNotAllowed)
		return
	}

	fields := map[string]json.RawMessage{}
	if err := decodeOptionalJSON(r.Body, &fields); err != nil {
		s.fail(w, r, common.ErrInvalidBody.WithCause(err))
		return
	}

	if err := validation.CheckUpdateKeys(slices.Collect(maps.Keys(fields))); err != nil {
		s.fail(w, r, err)
		return
	}

	upd, err := parseUpdate(fields)
	if err != nil {
		s.fail(w, r, common.ErrInvalidBody.WithCause(err))
		return
	}

	current, _ := UserFromContext(r.Context())
	if err := s.svc.Users.Update(r.Context(), current.ID, upd); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addProfilePic(w http.ResponseWriter, r *http.Request) {
	if hasQuery(r) {
		s.fail(w, r, common.ErrQueryParamsNotAllowed)
		return
	}

	fh, err := singleUpload(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(w, r, common.ErrAddProfilePicFailed.WithCause(err))
		return
	}
	defer f.Close()

	current, _ := UserFromContext(r.Context())
	pic, err := s.svc.ProfilePics.Add(r.Context(), current.ID, fh.Filename, f)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newProfilePicResponse(pic))
}

func (s *Server) getProfilePic(w http.ResponseWriter, r *http.Request) {
	if hasQuery(r) || hasBody(r) {
		s.fail(w, r, common.ErrQueryOrBodyNotAllowed)
		return
	}

	current, _ := UserFromContext(r.Context())
	pic, err := s.svc.ProfilePics.Get(r.Context(), current.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newProfilePicResponse(pic))
}

func (s *Server) deleteProfilePic(w http.ResponseWriter, r *http.Request) {
	if hasQuery(r) || hasBody(r) {
		s.fail(w, r, common.ErrQueryOrBodyNotAllowed)
		return
	}

	current, _ := UserFromContext(r.Context())
	if err := s.svc.ProfilePics.Delete(r.Context(), current.ID); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email, token := q.Get("email"), q.Get("token")

	if email == "" || token == "" {
		s.fail(w, r, common.ErrVerifyParamsRequired)
		return
	}
	for k := range q {
		if k != "email" && k != "token" {
			s.fail(w, r, common.ErrUnexpectedQueryParams)
			return
		}
	}
	if hasBody(r) {
		s.fail(w, r, common.ErrBodyNotAllowed)
		return
	}

	if err := s.svc.Verification.Verify(r.Context(), email, token); err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Message: "Email verified successfully!", Verified: true})
}

// decodeOptionalJSON decodes body into v. An empty body leaves v untouched.
func decodeOptionalJSON(body io.Reader, v any) error {
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// parseUpdate turns already key-checked fields into an Update. Every value
// must be a JSON string.
func parseUpdate(fields map[string]json.RawMessage) (validation.Update, error) {
	var upd validation.Update
	targets := map[string]**string{
		"first_name": &upd.FirstName,
		"last_name":  &upd.LastName,
		"password":   &upd.Password,
	}
	for k, raw := range fields {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return validation.Update{}, err
		}
		*targets[k] = &v
	}
	return upd, nil
}

// singleUpload returns the one file of a multipart request. Any number of
// files other than one, or a file under another field, is rejected.
func singleUpload(r *http.Request) (*multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return nil, common.ErrNoFile.WithCause(err)
	}
	form := r.MultipartForm

	total := 0
	for _, files := range form.File {
		total += len(files)
	}
	switch {
	case total == 0:
		return nil, common.ErrNoFile
	case total > 1:
		return nil, common.ErrMultipleFiles
	}

	files := form.File[profilePicField]
	if len(files) != 1 {
		return nil, common.ErrNoFile
	}
	return files[0], nil
}
