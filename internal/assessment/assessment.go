package assessment

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/safar/storefront/internal/models"
	"github.com/safar/storefront/internal/recommend"
)

type Step int

const (
	StepIntro Step = iota
	StepConsent
	StepPersonal
	StepMedical
	StepGoals
	StepPreferences
)

const NoneOfTheAbove = "None of the above"

var (
	AgeRanges         = []string{"18-25", "26-35", "36-45", "46-55", "55+"}
	ExperienceLevels  = []string{"Beginner", "Intermediate", "Advanced"}
	MedicalConditions = []string{
		"Cancer",
		"Diabetes",
		"Heart Condition",
		"Kidney Issues",
		"Liver Issues",
		"Pregnant / Nursing",
		NoneOfTheAbove,
	}
	Frequencies = []models.Frequency{models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyAsNeeded}
)

var (
	ErrConsentRequired    = errors.New("you must accept the terms to proceed")
	ErrPersonalIncomplete = errors.New("please fill in all required fields")
	ErrMedicalRequired    = errors.New("please select at least one option (or \"None\")")
	ErrUnknownGoal        = errors.New("unknown goal")
	ErrUnknownOption      = errors.New("unknown option")
	ErrNoNextStep         = errors.New("already at the last step")
	ErrNoPrevStep         = errors.New("already at the first step")
)

type Form struct {
	FullName        string             `json:"full_name"`
	Email           string             `json:"email"`
	AgeRange        string             `json:"age_range"`
	Location        string             `json:"location"`
	Goals           []recommend.Goal   `json:"goals"`
	MedicalHistory  []string           `json:"medical_history"`
	ExperienceLevel string             `json:"experience_level"`
	Preferences     models.Preferences `json:"preferences"`
	ConsentAgreed   bool               `json:"consent_agreed"`
}

// check runs the guard for leaving step.
func (f *Form) check(step Step) error {
	switch step {
	case StepConsent:
		if !f.ConsentAgreed {
			return ErrConsentRequired
		}
	case StepPersonal:
		if strings.TrimSpace(f.FullName) == "" || strings.TrimSpace(f.Email) == "" || f.AgeRange == "" {
			return ErrPersonalIncomplete
		}
		if !slices.Contains(AgeRanges, f.AgeRange) {
			return fmt.Errorf("age range %q: %w", f.AgeRange, ErrUnknownOption)
		}
	case StepMedical:
		if len(f.MedicalHistory) == 0 {
			return ErrMedicalRequired
		}
		for _, c := range f.MedicalHistory {
			if !slices.Contains(MedicalConditions, c) {
				return fmt.Errorf("medical condition %q: %w", c, ErrUnknownOption)
			}
		}
	case StepGoals:
		for _, g := range f.Goals {
			if !recommend.Known(g) {
				return fmt.Errorf("goal %q: %w", g, ErrUnknownGoal)
			}
		}
		if f.ExperienceLevel != "" && !slices.Contains(ExperienceLevels, f.ExperienceLevel) {
			return fmt.Errorf("experience level %q: %w", f.ExperienceLevel, ErrUnknownOption)
		}
	case StepPreferences:
		if !f.Preferences.Frequency.Valid() {
			return fmt.Errorf("frequency %q: %w", f.Preferences.Frequency, ErrUnknownOption)
		}
	}
	return nil
}

// Validate applies every step guard in order and returns the first failure.
func (f *Form) Validate() error {
	for step := StepIntro; step <= StepPreferences; step++ {
		if err := f.check(step); err != nil {
			return err
		}
	}
	return nil
}

type Wizard struct {
	step Step
	form Form
}

func NewWizard() *Wizard {
	return &Wizard{}
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) Form() Form {
	f := w.form
	f.Goals = slices.Clone(w.form.Goals)
	f.MedicalHistory = slices.Clone(w.form.MedicalHistory)
	return f
}

func (w *Wizard) Next() error {
	if w.step == StepPreferences {
		return ErrNoNextStep
	}
	if err := w.form.check(w.step); err != nil {
		return err
	}
	w.step++
	return nil
}

func (w *Wizard) Prev() error {
	if w.step == StepIntro {
		return ErrNoPrevStep
	}
	w.step--
	return nil
}

func (w *Wizard) SetConsent(agreed bool) {
	w.form.ConsentAgreed = agreed
}

func (w *Wizard) SetPersonal(fullName, email, ageRange, location string) {
	w.form.FullName = fullName
	w.form.Email = email
	w.form.AgeRange = ageRange
	w.form.Location = location
}

func (w *Wizard) SetExperience(level string) error {
	if level != "" && !slices.Contains(ExperienceLevels, level) {
		return fmt.Errorf("experience level %q: %w", level, ErrUnknownOption)
	}
	w.form.ExperienceLevel = level
	return nil
}

func (w *Wizard) SetFrequency(f models.Frequency) error {
	if !f.Valid() {
		return fmt.Errorf("frequency %q: %w", f, ErrUnknownOption)
	}
	w.form.Preferences.Frequency = f
	return nil
}

// ToggleGoal adds or removes goal. Selection order is kept: the first goal
// still selected is the primary one.
func (w *Wizard) ToggleGoal(goal recommend.Goal) error {
	if !recommend.Known(goal) {
		return fmt.Errorf("toggle goal %q: %w", goal, ErrUnknownGoal)
	}
	if i := slices.Index(w.form.Goals, goal); i >= 0 {
		w.form.Goals = slices.Delete(w.form.Goals, i, i+1)
		return nil
	}
	w.form.Goals = append(w.form.Goals, goal)
	return nil
}

// ToggleMedical flips condition. NoneOfTheAbove excludes every other entry.
func (w *Wizard) ToggleMedical(condition string) error {
	if !slices.Contains(MedicalConditions, condition) {
		return fmt.Errorf("toggle condition %q: %w", condition, ErrUnknownOption)
	}
	if condition == NoneOfTheAbove {
		w.form.MedicalHistory = []string{NoneOfTheAbove}
		return nil
	}

	conditions := slices.DeleteFunc(w.form.MedicalHistory, func(c string) bool { return c == NoneOfTheAbove })
	if i := slices.Index(conditions, condition); i >= 0 {
		conditions = slices.Delete(conditions, i, i+1)
	} else {
		conditions = append(conditions, condition)
	}
	w.form.MedicalHistory = conditions
	return nil
}

type ResponseSaver interface {
	SaveAssessment(ctx context.Context, resp models.AssessmentResponse) (*models.AssessmentResponse, error)
}

type Outcome struct {
	Response        models.AssessmentResponse `json:"response"`
	Recommendations recommend.Result          `json:"recommendations"`
	Saved           bool                      `json:"saved"`
	SaveErr         error                     `json:"-"`
}

func (f Form) response(now time.Time) models.AssessmentResponse {
	goals := make([]string, 0, len(f.Goals))
	for _, g := range f.Goals {
		goals = append(goals, string(g))
	}
	return models.AssessmentResponse{
		FullName:        strings.TrimSpace(f.FullName),
		Email:           strings.TrimSpace(f.Email),
		AgeRange:        f.AgeRange,
		Location:        strings.TrimSpace(f.Location),
		Goals:           goals,
		MedicalHistory:  slices.Clone(f.MedicalHistory),
		ExperienceLevel: f.ExperienceLevel,
		Preferences:     f.Preferences,
		ConsentAgreed:   f.ConsentAgreed,
		Status:          models.AssessmentStatusNew,
		CreatedAt:       now,
	}
}

// Submit records the form and computes recommendations. The write is best
// effort: a failure is reported in the outcome and never withholds the
// recommendations.
func Submit(ctx context.Context, f Form, saver ResponseSaver, catalog []models.Product, now time.Time) (*Outcome, error) {
	if !f.ConsentAgreed {
		return nil, ErrConsentRequired
	}

	out := &Outcome{
		Response:        f.response(now),
		Recommendations: recommend.Recommend(f.Goals, catalog),
	}

	saved, err := saver.SaveAssessment(ctx, out.Response)
	if err != nil {
		out.SaveErr = fmt.Errorf("save assessment: %w", err)
		return out, nil
	}
	out.Response = *saved
	out.Saved = true
	return out, nil
}
