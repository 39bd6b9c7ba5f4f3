package services

import "context"

// NewMemoryBackend keeps every collection in process memory. With a dataDir
// each collection is also written to its own JSON file there and reloaded on
// the next start.
func NewMemoryBackend(dataDir string) (*Backend, error) {
	admins, err := NewAdminStore(dataDir)
	if err != nil {
		return nil, err
	}
	profile, err := NewProfileStore(dataDir)
	if err != nil {
		return nil, err
	}
	skills, err := NewSkillStore(dataDir)
	if err != nil {
		return nil, err
	}
	projects, err := NewProjectStore(dataDir)
	if err != nil {
		return nil, err
	}
	experience, err := NewExperienceStore(dataDir)
	if err != nil {
		return nil, err
	}
	achievements, err := NewAchievementStore(dataDir)
	if err != nil {
		return nil, err
	}
	messages, err := NewMessageStore(dataDir)
	if err != nil {
		return nil, err
	}

	name := "memory"
	if dataDir != "" {
		name = "file:" + dataDir
	}

	return &Backend{
		Name:         name,
		Admins:       admins,
		Profile:      profile,
		Skills:       skills,
		Projects:     projects,
		Experience:   experience,
		Achievements: achievements,
		Messages:     messages,
		reset: func(ctx context.Context) error {
			for _, reset := range []func() error{
				profile.col.reset,
				skills.col.reset,
				projects.col.reset,
				experience.col.reset,
				achievements.col.reset,
				messages.col.reset,
			} {
				if err := reset(); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}
