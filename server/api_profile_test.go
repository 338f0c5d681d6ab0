package main

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileRowEmptyAboutPhoto() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "greeting", "tagline", "bio", "photo", "job_titles", "tech_stack",
		"about_heading", "about_subtitle", "name", "about", "about_quote", "about_photo", "cv_url", "years_of_experience",
	}).AddRow("prof1", "Hi", "t", "bio", "me.png", []byte(`[]`), []byte(`[]`),
		"About Me", "sub", "Bob", "about", "quote", "", "cv.pdf", 5)
}

func profileRowEmptyBio(tagline, about string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "greeting", "tagline", "bio", "photo", "job_titles", "tech_stack",
		"about_heading", "about_subtitle", "name", "about", "about_quote", "about_photo", "cv_url", "years_of_experience",
	}).AddRow("prof1", "Hi", tagline, "", "me.png", []byte(`[]`), []byte(`[]`),
		"About Me", "sub", "Bob", about, "quote", "about.png", "cv.pdf", 5)
}

func TestGetHero_MapsTaglineToRole(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	expectSession(mock)
	mock.ExpectQuery(`from profile order by id limit 1`).
		WillReturnRows(profileRow("Backend Engineer", "about text"))

	rec := doJSON(mux, "GET", "/api/admin/hero", "", adminCookie())
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var h Hero
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "Backend Engineer", h.Role)
	assert.Equal(t, "Hi", h.Greeting)
	assert.NotContains(t, rec.Body.String(), `"tagline"`)
}

func TestUpdateHero_RoundTrip(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	expectSession(mock)
	mock.ExpectQuery(`update profile set tagline=\$1 where id=\(select id from profile order by id limit 1\) returning`).
		WithArgs("Platform Engineer").
		WillReturnRows(profileRow("Platform Engineer", "about text"))

	rec := doJSON(mux, "PUT", "/api/admin/hero", `{"role":"Platform Engineer"}`, adminCookie())
	require.Equal(t, 200, rec.Code, rec.Body.String())

	// what was written as "role" reads back as "role"
	var h Hero
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "Platform Engineer", h.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAbout_MapsExternalNames(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	expectSession(mock)
	mock.ExpectQuery(`update profile set about=\$1, about_quote=\$2 where id=\(select id from profile order by id limit 1\) returning`).
		WithArgs("new description", "new quote").
		WillReturnRows(profileRow("t", "new description"))

	rec := doJSON(mux, "PUT", "/api/admin/about", `{"description":"new description","quote":"new quote"}`, adminCookie())
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var ab About
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ab))
	assert.Equal(t, "new description", ab.Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAbout_NegativeYearsRejected(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	expectSession(mock)
	rec := doJSON(mux, "PUT", "/api/admin/about", `{"yearsOfExperience":-1}`, adminCookie())
	require.Equal(t, 400, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAbout_PhotoFallsBackToProfilePhoto(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	expectSession(mock)
	rows := profileRowEmptyAboutPhoto()
	mock.ExpectQuery(`from profile order by id limit 1`).WillReturnRows(rows)

	rec := doJSON(mux, "GET", "/api/admin/about", "", adminCookie())
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var ab About
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ab))
	assert.Equal(t, "me.png", ab.Photo)
}

func TestGetHero_ProfileMissing(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	expectSession(mock)
	mock.ExpectQuery(`from profile order by id limit 1`).
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(mux, "GET", "/api/admin/hero", "", adminCookie())
	assert.Equal(t, 404, rec.Code)
}

func TestPublicProfile_RoleAliasAndBioFallback(t *testing.T) {
	_, mock, mux := newTestAPI(t)

	mock.ExpectQuery(`from profile order by id limit 1`).
		WillReturnRows(profileRowEmptyBio("Fullstack Dev", "about is the bio now"))

	rec := doJSON(mux, "GET", "/api/profile", "")
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Fullstack Dev", got["role"])
	assert.Equal(t, "Fullstack Dev", got["tagline"])
	assert.Equal(t, "about is the bio now", got["bio"])
}
