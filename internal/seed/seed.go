// Package seed loads the sample portfolio into a backend.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/portfolio/backend/internal/models"
	"github.com/portfolio/backend/internal/services"
)

// Credentials used when no admin is configured outside production.
const (
	DefaultAdminEmail    = "admin@losantos.com"
	DefaultAdminPassword = "GTA5Admin123!"
)

//go:embed content.json
var defaultContent []byte

// Content is the sample portfolio, expressed as the same requests the API
// accepts so it passes the same validation.
type Content struct {
	Profile      models.UpdateProfileRequest `json:"profile"`
	Skills       []models.SkillRequest       `json:"skills"`
	Projects     []models.ProjectRequest     `json:"projects"`
	Experience   []models.ExperienceRequest  `json:"experience"`
	Achievements []models.AchievementRequest `json:"achievements"`
}

// DefaultContent decodes the embedded sample portfolio.
func DefaultContent() (*Content, error) {
	var c Content
	if err := json.Unmarshal(defaultContent, &c); err != nil {
		return nil, errors.Wrap(err, "failed to decode seed content")
	}
	return &c, nil
}

type Options struct {
	AdminEmail    string
	AdminPassword string
	// Reset wipes portfolio content and messages first.
	Reset bool
	// SkipContent only ensures the admin account.
	SkipContent bool
	Content     *Content
}

// Result counts what was written.
type Result struct {
	AdminEmail   string
	AdminCreated bool
	ContentSkip  string
	Skills       int
	Projects     int
	Experience   int
	Achievements int
}

// Run seeds b. Content is only written into an empty portfolio unless Reset
// is set, so running it twice does not duplicate entries.
func Run(ctx context.Context, b *services.Backend, opts Options) (*Result, error) {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil, errors.New("admin email and password are required")
	}

	if opts.Reset {
		if err := b.Reset(ctx); err != nil {
			return nil, errors.Wrap(err, "failed to reset storage")
		}
		log.Printf("[Seed] cleared existing content on %s", b.Name)
	}

	admin, created, err := b.Admins.EnsureAdmin(ctx, opts.AdminEmail, opts.AdminPassword)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create admin")
	}
	res := &Result{AdminEmail: admin.Email, AdminCreated: created}

	if opts.SkipContent {
		res.ContentSkip = "skipped by request"
		return res, nil
	}

	if !opts.Reset {
		empty, err := isEmpty(ctx, b)
		if err != nil {
			return nil, err
		}
		if !empty {
			res.ContentSkip = "content already present, use --reset to replace it"
			return res, nil
		}
	}

	content := opts.Content
	if content == nil {
		if content, err = DefaultContent(); err != nil {
			return nil, err
		}
	}
	if err := writeContent(ctx, b, content, res); err != nil {
		return nil, err
	}
	return res, nil
}

func isEmpty(ctx context.Context, b *services.Backend) (bool, error) {
	skills, err := b.Skills.List(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to list skills")
	}
	projects, err := b.Projects.List(ctx, models.ProjectQuery{Limit: 1})
	if err != nil {
		return false, errors.Wrap(err, "failed to list projects")
	}
	return len(skills) == 0 && len(projects) == 0, nil
}

func writeContent(ctx context.Context, b *services.Backend, c *Content, res *Result) error {
	if err := check("profile", c.Profile.Validate()); err != nil {
		return err
	}
	if _, err := b.Profile.Update(ctx, &c.Profile); err != nil {
		return errors.Wrap(err, "failed to write profile")
	}

	for i := range c.Skills {
		req := &c.Skills[i]
		if err := check(fmt.Sprintf("skills[%d]", i), req.Validate()); err != nil {
			return err
		}
		if _, err := b.Skills.Create(ctx, req); err != nil {
			return errors.Wrapf(err, "failed to create skill %q", req.Category)
		}
		res.Skills++
	}

	for i := range c.Projects {
		req := &c.Projects[i]
		if err := check(fmt.Sprintf("projects[%d]", i), req.Validate()); err != nil {
			return err
		}
		if _, err := b.Projects.Create(ctx, req); err != nil {
			return errors.Wrapf(err, "failed to create project %q", req.Title)
		}
		res.Projects++
	}

	for i := range c.Experience {
		req := &c.Experience[i]
		if err := check(fmt.Sprintf("experience[%d]", i), req.Validate()); err != nil {
			return err
		}
		if _, err := b.Experience.Create(ctx, req); err != nil {
			return errors.Wrapf(err, "failed to create experience %q", req.Title)
		}
		res.Experience++
	}

	for i := range c.Achievements {
		req := &c.Achievements[i]
		if err := check(fmt.Sprintf("achievements[%d]", i), req.Validate()); err != nil {
			return err
		}
		if _, err := b.Achievements.Create(ctx, req); err != nil {
			return errors.Wrapf(err, "failed to create achievement %q", req.Title)
		}
		res.Achievements++
	}
	return nil
}

func check(what string, errs map[string]string) error {
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for field, msg := range errs {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return errors.Errorf("invalid %s: %s", what, strings.Join(fields, "; "))
}
