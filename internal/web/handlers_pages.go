package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/JonMunkholm/contactdesk/internal/web/templates"
	"github.com/a-h/templ"
)

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, templates.LandingData{})
}

// handleContactForm accepts the server-rendered form. When the browser does
// not post a platform, it is classified from the posted viewport width, or
// from the User-Agent when no width is sent.
func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, r, http.StatusBadRequest, templates.LandingData{
			Flash:     core.FormatUserError(errInvalidBody),
			FlashKind: templates.FlashError,
		})
		return
	}

	in := core.NewSubmission{
		Name:     r.PostForm.Get("name"),
		Email:    r.PostForm.Get("email"),
		Message:  r.PostForm.Get("message"),
		Platform: r.PostForm.Get("platform"),
	}
	if in.Platform == "" {
		in.Platform = platformFromForm(r)
	}

	sub, err := s.service.Create(withRequestMeta(r).Context(), in)
	if err != nil {
		data := templates.LandingData{
			Flash:     core.FormatUserError(err),
			FlashKind: templates.FlashError,
			Form: templates.ContactForm{
				Name:     in.Name,
				Email:    in.Email,
				Message:  in.Message,
				Platform: r.PostForm.Get("platform"),
				Width:    r.PostForm.Get("width"),
			},
		}
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			data.Form.Errors = verr.Fields
		}
		s.renderPage(w, r, statusFor(err), data)
		return
	}
	s.metrics.SubmissionCreated(sub.Platform)

	s.renderPage(w, r, http.StatusOK, templates.LandingData{
		Flash:     "Thank you! Your message has been sent.",
		FlashKind: templates.FlashSuccess,
	})
}

func platformFromForm(r *http.Request) string {
	if width, err := strconv.Atoi(r.PostForm.Get("width")); err == nil && width > 0 {
		return core.PlatformFromWidth(width)
	}
	return core.PlatformFromUserAgent(r.UserAgent())
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, data templates.LandingData) {
	templ.Handler(templates.Landing(data), templ.WithStatus(status)).ServeHTTP(w, r)
	if status >= 500 {
		logging.FromContext(r.Context()).Error("landing page rendered with error", "status", status, "flash", data.Flash)
	}
}
