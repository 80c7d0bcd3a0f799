// Package templates renders the server-side HTML pages.
//
// Components are written in .templ files; run `templ generate` after editing
// them.
package templates

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// ContactForm holds the values echoed back into the form after a failed
// submit, plus per-field errors.
type ContactForm struct {
	Name     string
	Email    string
	Message  string
	Platform string
	Width    string
	Errors   map[string]string
}

// LandingData is the view model for the landing page.
type LandingData struct {
	Title     string
	Flash     string
	FlashKind string
	Form      ContactForm
}

func (d LandingData) title() string {
	if d.Title == "" {
		return "Get in touch"
	}
	return d.Title
}
