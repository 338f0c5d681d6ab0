package main

import "time"

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Href        string    `json:"href,omitempty"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

type Skill struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IconName   string    `json:"icon_name"`
	Category   string    `json:"category,omitempty"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

type Certification struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Href       string    `json:"href,omitempty"`
	Image      string    `json:"image"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
}

type Comment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Message    string    `json:"message"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile is the single persisted profile row. The hero and about sections
// of the site are projections of it; see Hero and About for the external
// field names.
type Profile struct {
	ID                string   `json:"id"`
	Greeting          string   `json:"greeting"`
	Tagline           string   `json:"tagline"`
	Bio               string   `json:"bio"`
	Photo             string   `json:"photo"`
	JobTitles         []string `json:"job_titles"`
	TechStack         []string `json:"tech_stack"`
	AboutHeading      string   `json:"about_heading"`
	AboutSubtitle     string   `json:"about_subtitle"`
	Name              string   `json:"name"`
	About             string   `json:"about"`
	AboutQuote        string   `json:"about_quote"`
	AboutPhoto        string   `json:"about_photo"`
	CVURL             string   `json:"cv_url"`
	YearsOfExperience int      `json:"years_of_experience"`
}

// Hero is the external shape of the hero section. "role" is persisted as
// the tagline column; the mapping is applied on both read and write.
type Hero struct {
	Greeting  string   `json:"greeting"`
	Role      string   `json:"role"`
	Bio       string   `json:"bio"`
	Photo     string   `json:"photo"`
	JobTitles []string `json:"job_titles"`
	TechStack []string `json:"tech_stack"`
}

// About is the external shape of the about section. "description" is
// persisted as the about column, "quote" as about_quote, "photo" as
// about_photo.
type About struct {
	Heading           string `json:"heading"`
	Subtitle          string `json:"subtitle"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Quote             string `json:"quote"`
	Photo             string `json:"photo"`
	CVURL             string `json:"cvUrl"`
	YearsOfExperience int    `json:"yearsOfExperience"`
}
