package main

import (
	"errors"
	"net/http"
)

// The hero and about admin endpoints expose two views of the one profile
// row, each with its own external field names. heroView/aboutView and the
// two update handlers are the two halves of the same mapping; keep them in
// sync (the round-trip test pins this).

func heroView(p Profile) Hero {
	return Hero{
		Greeting:  p.Greeting,
		Role:      p.Tagline,
		Bio:       p.Bio,
		Photo:     p.Photo,
		JobTitles: p.JobTitles,
		TechStack: p.TechStack,
	}
}

func aboutView(p Profile) About {
	photo := p.AboutPhoto
	if photo == "" {
		photo = p.Photo
	}
	return About{
		Heading:           p.AboutHeading,
		Subtitle:          p.AboutSubtitle,
		Name:              p.Name,
		Description:       p.About,
		Quote:             p.AboutQuote,
		Photo:             photo,
		CVURL:             p.CVURL,
		YearsOfExperience: p.YearsOfExperience,
	}
}

func (a *api) getProfileOr404(w http.ResponseWriter, r *http.Request) (Profile, bool) {
	p, err := a.store.GetProfile(r.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "profile not found")
			return Profile{}, false
		}
		a.log.Error("get profile", "err", err)
		writeError(w, 500, "internal error")
		return Profile{}, false
	}
	return p, true
}

func (a *api) handleGetHero(w http.ResponseWriter, r *http.Request) {
	p, ok := a.getProfileOr404(w, r)
	if !ok {
		return
	}
	writeJSON(w, 200, heroView(p))
}

func (a *api) handleUpdateHero(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Greeting  *string   `json:"greeting"`
		Role      *string   `json:"role"`
		Bio       *string   `json:"bio"`
		Photo     *string   `json:"photo"`
		JobTitles *[]string `json:"job_titles"`
		TechStack *[]string `json:"tech_stack"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	p, err := a.store.UpdateProfile(r.Context(), ProfilePatch{
		Greeting:  req.Greeting,
		Tagline:   req.Role,
		Bio:       req.Bio,
		Photo:     req.Photo,
		JobTitles: req.JobTitles,
		TechStack: req.TechStack,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "profile not found")
			return
		}
		a.log.Error("update hero", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, heroView(p))
}

func (a *api) handleGetAbout(w http.ResponseWriter, r *http.Request) {
	p, ok := a.getProfileOr404(w, r)
	if !ok {
		return
	}
	writeJSON(w, 200, aboutView(p))
}

func (a *api) handleUpdateAbout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Heading           *string `json:"heading"`
		Subtitle          *string `json:"subtitle"`
		Name              *string `json:"name"`
		Description       *string `json:"description"`
		Quote             *string `json:"quote"`
		Photo             *string `json:"photo"`
		CVURL             *string `json:"cvUrl"`
		YearsOfExperience *int    `json:"yearsOfExperience"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.YearsOfExperience != nil && *req.YearsOfExperience < 0 {
		writeError(w, 400, "yearsOfExperience cannot be negative")
		return
	}
	p, err := a.store.UpdateProfile(r.Context(), ProfilePatch{
		AboutHeading:      req.Heading,
		AboutSubtitle:     req.Subtitle,
		Name:              req.Name,
		About:             req.Description,
		AboutQuote:        req.Quote,
		AboutPhoto:        req.Photo,
		CVURL:             req.CVURL,
		YearsOfExperience: req.YearsOfExperience,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "profile not found")
			return
		}
		a.log.Error("update about", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, aboutView(p))
}

// PublicProfile is the unauthenticated profile read: the full row plus the
// hero-compatibility aliases the frontend expects.
type PublicProfile struct {
	Profile
	Role string `json:"role"`
}

func (a *api) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := a.getProfileOr404(w, r)
	if !ok {
		return
	}
	if p.Bio == "" {
		p.Bio = p.About
	}
	writeJSON(w, 200, PublicProfile{Profile: p, Role: p.Tagline})
}
