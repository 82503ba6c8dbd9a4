package cv

import (
	"errors"
	"time"

	"github.com/Asonyu-Ng/career-profile-pal/internal/identity"
)

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "Beginner"
	LevelIntermediate SkillLevel = "Intermediate"
	LevelAdvanced     SkillLevel = "Advanced"
	LevelExpert       SkillLevel = "Expert"
)

// check to see if the level is a known constant

func (l SkillLevel) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	default:
		return false
	}
}

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin"`
	Website  string `json:"website" validate:"omitempty,url"`
	Summary  string `json:"summary"`
}

type Experience struct {
	ID          string `json:"id" validate:"required"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type Education struct {
	ID          string `json:"id" validate:"required"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
}

type Skill struct {
	ID    string     `json:"id" validate:"required"`
	Name  string     `json:"name"`
	Level SkillLevel `json:"level" validate:"required,oneof=Beginner Intermediate Advanced Expert"`
}

// CV is one record of the user_cvs table. The whole table is persisted as a
// single serialized slice; ownership is resolved at query time via UserID.
type CV struct {
	ID           string       `json:"id" validate:"required"`
	UserID       string       `json:"userId" validate:"required"`
	Title        string       `json:"title"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Experience   []Experience `json:"experience" validate:"dive"`
	Education    []Education  `json:"education" validate:"dive"`
	Skills       []Skill      `json:"skills" validate:"dive"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

var ErrNotFound = errors.New("cv not found")

// New builds an empty draft owned by userID. All ids come from the identity
// generator, sub-entity ids included.
func New(userID, title string) CV {
	now := time.Now()
	return CV{
		ID:         identity.NewID(),
		UserID:     userID,
		Title:      title,
		Experience: []Experience{},
		Education:  []Education{},
		Skills:     []Skill{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewExperience() Experience {
	return Experience{ID: identity.NewID()}
}

func NewEducation() Education {
	return Education{ID: identity.NewID()}
}

func NewSkill(name string, level SkillLevel) Skill {
	return Skill{ID: identity.NewID(), Name: name, Level: level}
}

// HasContent reports whether the draft is worth persisting: a full name, or
// at least one experience or education entry. Skills alone do not count.
func (c CV) HasContent() bool {
	return c.PersonalInfo.FullName != "" || len(c.Experience) > 0 || len(c.Education) > 0
}
