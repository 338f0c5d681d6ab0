package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"portfolio/server/migrations"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}

// collectionTables whitelists the three ordered collections for the
// operations that are generic over them (reorder, delete).
var collectionTables = map[string]string{
	"projects":       "projects",
	"skills":         "skills",
	"certifications": "certifications",
}

// Reorder rewrites order_index for every row of the collection to match the
// given id sequence, in one transaction. An unknown id aborts the whole
// reorder; either every row gets its new position or none do.
func (s *Store) Reorder(ctx context.Context, kind string, ids []string) error {
	table, ok := collectionTables[kind]
	if !ok {
		return fmt.Errorf("unknown collection: %s", kind)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for i, id := range ids {
		res, err := tx.ExecContext(ctx, `update `+table+` set order_index=$1 where id=$2`, i, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}
	}
	return tx.Commit()
}

// DeleteItem removes one row. Remaining rows are not renumbered; gaps in
// order_index are fine, sorting stays well-defined.
func (s *Store) DeleteItem(ctx context.Context, kind, id string) error {
	table, ok := collectionTables[kind]
	if !ok {
		return fmt.Errorf("unknown collection: %s", kind)
	}
	res, err := s.db.ExecContext(ctx, `delete from `+table+` where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Projects ---

const projectCols = `id, title, description, coalesce(href,''), image, tags, order_index, created_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	var tags []byte
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Href, &p.Image, &tags, &p.OrderIndex, &p.CreatedAt)
	if err != nil {
		return Project{}, err
	}
	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return Project{}, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `select `+projectCols+` from projects order by order_index, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateProject appends to the end of the collection. The next order_index
// is computed inside the insert statement so concurrent creates cannot read
// a stale maximum.
func (s *Store) CreateProject(ctx context.Context, title, description, href, image string, tags []string) (Project, error) {
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return Project{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`insert into projects(title, description, href, image, tags, order_index)
		 values($1,$2,nullif($3,''),$4,$5,(select coalesce(max(order_index)+1,0) from projects))
		 returning `+projectCols,
		title, description, href, image, tagsJSON)
	return scanProject(row)
}

func (s *Store) UpdateProject(ctx context.Context, id string, title, description, href, image *string, tags *[]string) (Project, error) {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(expr string, v any) {
		set = append(set, fmt.Sprintf(expr, idx))
		args = append(args, v)
		idx++
	}
	if title != nil {
		add("title=$%d", *title)
	}
	if description != nil {
		add("description=$%d", *description)
	}
	if href != nil {
		add("href=nullif($%d,'')", *href)
	}
	if image != nil {
		add("image=$%d", *image)
	}
	if tags != nil {
		tagsJSON, err := json.Marshal(*tags)
		if err != nil {
			return Project{}, err
		}
		add("tags=$%d", tagsJSON)
	}
	if len(set) == 0 {
		return s.getProject(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`update projects set %s where id=$%d returning `+projectCols, joinComma(set), idx)
	p, err := scanProject(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (s *Store) getProject(ctx context.Context, id string) (Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, `select `+projectCols+` from projects where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

// --- Skills ---

const skillCols = `id, name, icon_name, coalesce(category,''), order_index, created_at`

func scanSkill(row interface{ Scan(...any) error }) (Skill, error) {
	var sk Skill
	err := row.Scan(&sk.ID, &sk.Name, &sk.IconName, &sk.Category, &sk.OrderIndex, &sk.CreatedAt)
	return sk, err
}

func (s *Store) ListSkills(ctx context.Context) ([]Skill, error) {
	rows, err := s.db.QueryContext(ctx, `select `+skillCols+` from skills order by order_index, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Skill{}
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

func (s *Store) CreateSkill(ctx context.Context, name, iconName, category string) (Skill, error) {
	row := s.db.QueryRowContext(ctx,
		`insert into skills(name, icon_name, category, order_index)
		 values($1,$2,nullif($3,''),(select coalesce(max(order_index)+1,0) from skills))
		 returning `+skillCols,
		name, iconName, category)
	return scanSkill(row)
}

func (s *Store) UpdateSkill(ctx context.Context, id string, name, iconName, category *string) (Skill, error) {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(expr string, v any) {
		set = append(set, fmt.Sprintf(expr, idx))
		args = append(args, v)
		idx++
	}
	if name != nil {
		add("name=$%d", *name)
	}
	if iconName != nil {
		add("icon_name=$%d", *iconName)
	}
	if category != nil {
		add("category=nullif($%d,'')", *category)
	}
	if len(set) == 0 {
		return s.getSkill(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`update skills set %s where id=$%d returning `+skillCols, joinComma(set), idx)
	sk, err := scanSkill(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Skill{}, ErrNotFound
	}
	return sk, err
}

func (s *Store) getSkill(ctx context.Context, id string) (Skill, error) {
	sk, err := scanSkill(s.db.QueryRowContext(ctx, `select `+skillCols+` from skills where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Skill{}, ErrNotFound
	}
	return sk, err
}

// --- Certifications ---

const certificationCols = `id, name, coalesce(href,''), image, order_index, created_at`

func scanCertification(row interface{ Scan(...any) error }) (Certification, error) {
	var c Certification
	err := row.Scan(&c.ID, &c.Name, &c.Href, &c.Image, &c.OrderIndex, &c.CreatedAt)
	return c, err
}

func (s *Store) ListCertifications(ctx context.Context) ([]Certification, error) {
	rows, err := s.db.QueryContext(ctx, `select `+certificationCols+` from certifications order by order_index, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Certification{}
	for rows.Next() {
		c, err := scanCertification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateCertification(ctx context.Context, name, href, image string) (Certification, error) {
	row := s.db.QueryRowContext(ctx,
		`insert into certifications(name, href, image, order_index)
		 values($1,nullif($2,''),$3,(select coalesce(max(order_index)+1,0) from certifications))
		 returning `+certificationCols,
		name, href, image)
	return scanCertification(row)
}

func (s *Store) UpdateCertification(ctx context.Context, id string, name, href, image *string) (Certification, error) {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(expr string, v any) {
		set = append(set, fmt.Sprintf(expr, idx))
		args = append(args, v)
		idx++
	}
	if name != nil {
		add("name=$%d", *name)
	}
	if href != nil {
		add("href=nullif($%d,'')", *href)
	}
	if image != nil {
		add("image=$%d", *image)
	}
	if len(set) == 0 {
		return s.getCertification(ctx, id)
	}
	args = append(args, id)
	q := fmt.Sprintf(`update certifications set %s where id=$%d returning `+certificationCols, joinComma(set), idx)
	c, err := scanCertification(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Certification{}, ErrNotFound
	}
	return c, err
}

func (s *Store) getCertification(ctx context.Context, id string) (Certification, error) {
	c, err := scanCertification(s.db.QueryRowContext(ctx, `select `+certificationCols+` from certifications where id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Certification{}, ErrNotFound
	}
	return c, err
}

// --- Profile (singleton) ---

const profileCols = `id, greeting, tagline, bio, photo, job_titles, tech_stack,
	about_heading, about_subtitle, name, about, about_quote, about_photo, cv_url, years_of_experience`

func scanProfile(row interface{ Scan(...any) error }) (Profile, error) {
	var p Profile
	var jobTitles, techStack []byte
	err := row.Scan(&p.ID, &p.Greeting, &p.Tagline, &p.Bio, &p.Photo, &jobTitles, &techStack,
		&p.AboutHeading, &p.AboutSubtitle, &p.Name, &p.About, &p.AboutQuote, &p.AboutPhoto, &p.CVURL, &p.YearsOfExperience)
	if err != nil {
		return Profile{}, err
	}
	if err := json.Unmarshal(jobTitles, &p.JobTitles); err != nil {
		return Profile{}, err
	}
	if err := json.Unmarshal(techStack, &p.TechStack); err != nil {
		return Profile{}, err
	}
	if p.JobTitles == nil {
		p.JobTitles = []string{}
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	return p, nil
}

func (s *Store) GetProfile(ctx context.Context) (Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx, `select `+profileCols+` from profile order by id limit 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

// ProfilePatch carries the optional column updates for the singleton row.
// Nil fields are left untouched.
type ProfilePatch struct {
	Greeting          *string
	Tagline           *string
	Bio               *string
	Photo             *string
	JobTitles         *[]string
	TechStack         *[]string
	AboutHeading      *string
	AboutSubtitle     *string
	Name              *string
	About             *string
	AboutQuote        *string
	AboutPhoto        *string
	CVURL             *string
	YearsOfExperience *int
}

// UpdateProfile applies the patch to the singleton row in one statement;
// the row is resolved inside the update rather than by a separate id fetch.
func (s *Store) UpdateProfile(ctx context.Context, patch ProfilePatch) (Profile, error) {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if patch.Greeting != nil {
		add("greeting", *patch.Greeting)
	}
	if patch.Tagline != nil {
		add("tagline", *patch.Tagline)
	}
	if patch.Bio != nil {
		add("bio", *patch.Bio)
	}
	if patch.Photo != nil {
		add("photo", *patch.Photo)
	}
	if patch.JobTitles != nil {
		b, err := json.Marshal(*patch.JobTitles)
		if err != nil {
			return Profile{}, err
		}
		add("job_titles", b)
	}
	if patch.TechStack != nil {
		b, err := json.Marshal(*patch.TechStack)
		if err != nil {
			return Profile{}, err
		}
		add("tech_stack", b)
	}
	if patch.AboutHeading != nil {
		add("about_heading", *patch.AboutHeading)
	}
	if patch.AboutSubtitle != nil {
		add("about_subtitle", *patch.AboutSubtitle)
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.About != nil {
		add("about", *patch.About)
	}
	if patch.AboutQuote != nil {
		add("about_quote", *patch.AboutQuote)
	}
	if patch.AboutPhoto != nil {
		add("about_photo", *patch.AboutPhoto)
	}
	if patch.CVURL != nil {
		add("cv_url", *patch.CVURL)
	}
	if patch.YearsOfExperience != nil {
		add("years_of_experience", *patch.YearsOfExperience)
	}
	if len(set) == 0 {
		return s.GetProfile(ctx)
	}
	q := fmt.Sprintf(`update profile set %s where id=(select id from profile order by id limit 1) returning `+profileCols, joinComma(set))
	p, err := scanProfile(s.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

// --- Comments ---

const commentCols = `id, name, coalesce(email,''), message, is_approved, created_at`

func scanComment(row interface{ Scan(...any) error }) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.IsApproved, &c.CreatedAt)
	return c, err
}

func (s *Store) ListApprovedComments(ctx context.Context) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+commentCols+` from comments where is_approved order by created_at desc limit 50`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListComments returns every comment, approved or not, for the admin
// moderation view.
func (s *Store) ListComments(ctx context.Context) ([]Comment, error) {
	rows, err := s.db.QueryContext(ctx, `select `+commentCols+` from comments order by created_at desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateComment(ctx context.Context, name, email, message string) (Comment, error) {
	row := s.db.QueryRowContext(ctx,
		`insert into comments(name, email, message, is_approved) values($1,nullif($2,''),$3,true) returning `+commentCols,
		name, email, message)
	return scanComment(row)
}

func (s *Store) SetCommentApproved(ctx context.Context, id string, approved bool) error {
	res, err := s.db.ExecContext(ctx, `update comments set is_approved=$1 where id=$2`, approved, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from comments where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Sessions ---

func (s *Store) CreateSession(ctx context.Context, ttl time.Duration) (string, time.Time, error) {
	// 32 random bytes, base64 URL encoded
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	expires := time.Now().Add(ttl)
	_, err := s.db.ExecContext(ctx, `insert into sessions(token, expires_at) values($1,$2)`, token, expires)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// SessionValid reports whether the token exists and has not expired.
// Returns ErrNotFound for unknown or expired tokens.
func (s *Store) SessionValid(ctx context.Context, token string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `select 1 from sessions where token=$1 and expires_at > now()`, token).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where token=$1`, token)
	return err
}

func (s *Store) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where expires_at <= now()`)
	return err
}

func joinComma(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for i := 1; i < len(parts); i++ {
		out += ", " + parts[i]
	}
	return out
}
