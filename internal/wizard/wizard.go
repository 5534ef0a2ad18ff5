// Package wizard implements the dashboard's multi-step forms as state machines.
//
// A [Wizard] accumulates a form object across fixed steps. [Wizard.Next] validates only the current step's
// fields and refuses to advance while they are invalid; [Wizard.Back] never validates; [Wizard.Submit]
// validates every step and hands back the finished form exactly once.
//
// Field rules come from `validate` struct tags (go-playground/validator) plus per-step checks for rules tags
// cannot express (cron syntax, the permission catalogue). Errors are keyed by JSON field name.
package wizard

import (
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/go-playground/validator/v10"
)

// Step is one page of a wizard.
type Step[T any] struct {
	Title string
	// Fields are Go field paths validated on this step ("Name", "Schedule.Cron").
	Fields []string
	// Check reports additional field errors, keyed by JSON field name.
	Check func(form *T) map[string]string
}

// ValidationError lists the invalid fields of a step.
type ValidationError struct {
	Step   int
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("step %d: %s", e.Step, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return shared.ErrValidation }

// Wizard is a multi-step form over T. It is not safe for concurrent use.
type Wizard[T any] struct {
	steps     []Step[T]
	form      T
	current   int
	errors    map[string]string
	submitted bool
}

// New creates a wizard on its first step with form initialized to initial.
func New[T any](initial T, steps ...Step[T]) *Wizard[T] {
	return &Wizard[T]{steps: steps, form: initial}
}

// Form returns the form being edited.
func (w *Wizard[T]) Form() *T { return &w.form }

// Step returns the current step number, starting at 1.
func (w *Wizard[T]) Step() int { return w.current + 1 }

func (w *Wizard[T]) StepCount() int { return len(w.steps) }

// Title returns the current step's title.
func (w *Wizard[T]) Title() string { return w.steps[w.current].Title }

// Titles returns every step title in order.
func (w *Wizard[T]) Titles() []string {
	titles := make([]string, len(w.steps))
	for i, s := range w.steps {
		titles[i] = s.Title
	}
	return titles
}

// IsLast reports whether the wizard is on its final (review) step.
func (w *Wizard[T]) IsLast() bool { return w.current == len(w.steps)-1 }

// Errors returns the field errors from the last failed validation.
func (w *Wizard[T]) Errors() map[string]string { return maps.Clone(w.errors) }

func (w *Wizard[T]) Submitted() bool { return w.submitted }

// Next validates the current step and advances. It returns a [*ValidationError] and stays put when the
// step is invalid. On the last step Next is a no-op.
func (w *Wizard[T]) Next() error {
	if w.IsLast() {
		return nil
	}
	if err := w.validateStep(w.current); err != nil {
		return err
	}
	w.current++
	return nil
}

// Back returns to the previous step, reporting whether it moved.
func (w *Wizard[T]) Back() bool {
	if w.current == 0 || w.submitted {
		return false
	}
	w.current--
	w.errors = nil
	return true
}

// Submit validates every step and returns the form. It only succeeds once, from the last step; an invalid
// step becomes the current step.
func (w *Wizard[T]) Submit() (T, error) {
	var zero T
	if w.submitted {
		return zero, shared.ErrAlreadySubmit
	}
	if !w.IsLast() {
		return zero, fmt.Errorf("%w: step %d of %d is not the review step", shared.ErrInvalidInput, w.Step(), len(w.steps))
	}

	for i := range w.steps {
		if err := w.validateStep(i); err != nil {
			w.current = i
			return zero, err
		}
	}

	w.submitted = true
	return w.form, nil
}

// Reset restarts the wizard with a fresh form.
func (w *Wizard[T]) Reset(initial T) {
	w.form = initial
	w.current = 0
	w.errors = nil
	w.submitted = false
}

func (w *Wizard[T]) validateStep(i int) error {
	step := w.steps[i]
	errs := make(map[string]string)

	if len(step.Fields) > 0 {
		if err := validate.StructPartial(w.form, step.Fields...); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				return fmt.Errorf("%w: %w", shared.ErrValidation, err)
			}
			for _, fe := range verrs {
				errs[fe.Field()] = describe(fe)
			}
		}
	}

	if step.Check != nil {
		for k, v := range step.Check(&w.form) {
			if _, exists := errs[k]; !exists {
				errs[k] = v
			}
		}
	}

	if len(errs) > 0 {
		w.errors = errs
		return &ValidationError{Step: i + 1, Fields: maps.Clone(errs)}
	}
	w.errors = nil
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.Slice {
			return "needs at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
