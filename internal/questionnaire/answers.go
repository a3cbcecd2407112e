package questionnaire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ignite/survey-tracker/internal/pkg/textnorm"
)

// Answers holds the collected values per step. Single-choice and free-text
// steps hold one value; multi-choice steps hold one value per selection.
type Answers map[StepID][]string

func (a Answers) has(id StepID) bool {
	_, ok := a[id]
	return ok
}

func (a Answers) first(id StepID) (string, bool) {
	v := a[id]
	if len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// validate checks raw input against a step and returns the stored form.
func validate(step Step, values []string) ([]string, error) {
	switch step.Kind {
	case SingleChoice:
		if len(values) != 1 {
			return nil, fmt.Errorf("%w: %s takes exactly one value", ErrInvalidAnswer, step.ID)
		}
		v := textnorm.Normalize(values[0])
		if step.ID == StepAttendance {
			return parseAttendance(v)
		}
		if sc, ok := step.Scale(); ok {
			n, err := strconv.Atoi(v)
			if err != nil || !sc.Valid(n) {
				return nil, fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidAnswer, step.ID, sc.Min, sc.Max)
			}
			return []string{strconv.Itoa(n)}, nil
		}
		for _, o := range step.Options {
			if textnorm.Normalize(o.Value) == v {
				return []string{o.Value}, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not an option for %s", ErrInvalidAnswer, values[0], step.ID)

	case MultiChoice:
		out := make([]string, 0, len(values))
		seen := make(map[string]bool, len(values))
		for _, raw := range values {
			v, err := multiValue(step, raw)
			if err != nil {
				return nil, err
			}
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
		return out, nil

	case FreeText:
		joined := strings.TrimSpace(strings.Join(values, "\n"))
		if joined == "" {
			return []string{}, nil
		}
		return []string{joined}, nil
	}
	return nil, fmt.Errorf("%w: unknown step kind %q", ErrInvalidAnswer, step.Kind)
}

// multiValue maps one selection to its stored tag: a normalized option, or
// the free text following the Other prefix.
func multiValue(step Step, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= len(OtherPrefix) && strings.EqualFold(trimmed[:len(OtherPrefix)], OtherPrefix) {
		other := textnorm.Normalize(trimmed[len(OtherPrefix):])
		if other == "" {
			return "", fmt.Errorf("%w: %s needs text after %q", ErrInvalidAnswer, step.ID, OtherPrefix)
		}
		return other, nil
	}
	v := textnorm.Normalize(trimmed)
	if v == "" {
		return "", nil
	}
	for _, o := range step.Options {
		if textnorm.Normalize(o.Value) == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not an option for %s", ErrInvalidAnswer, raw, step.ID)
}

func parseAttendance(v string) ([]string, error) {
	switch v {
	case "yes", "true", "1":
		return []string{"yes"}, nil
	case "no", "false", "0":
		return []string{"no"}, nil
	}
	return nil, fmt.Errorf("%w: attendance must be yes or no", ErrInvalidAnswer)
}
