package allocator

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Stage is a step of the roster pipeline
type Stage int

const (
	StageInit Stage = iota
	StageAllocateAdmin
	StageAllocateClinical
	StageVerifyRatios
	StageRebalance
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "Init"
	case StageAllocateAdmin:
		return "AllocateAdmin"
	case StageAllocateClinical:
		return "AllocateClinical"
	case StageVerifyRatios:
		return "VerifyRatios"
	case StageRebalance:
		return "Rebalance"
	case StageDone:
		return "Done"
	case StageFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// StageError wraps the error that moved the pipeline to StageFailed
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// AllocationConfig contains everything needed to run the roster pipeline
type AllocationConfig struct {
	// People in ledger order. Inactive people are ignored.
	People []Person

	// StartDate is the first day of the horizon
	StartDate time.Time

	// Weeks is the horizon length
	Weeks int

	// Catalog defaults to DefaultCatalog when nil
	Catalog *Catalog

	// Logger defaults to a no-op logger when nil
	Logger *zap.Logger
}

// AllocationOutcome represents the result of a roster run
type AllocationOutcome struct {
	// State is the final roster state
	State *RosterState

	// Stages lists every stage the run entered, in order
	Stages []Stage

	// VacantSlots are clinical slots nobody could cover
	VacantSlots []VacantSlot

	// RatioDeviations are advisory reports from VerifyRatios
	RatioDeviations []RatioDeviation

	// Swaps made by the fairness rebalancer
	Swaps []Swap
}

// FinalStage returns the last stage the run entered
func (o *AllocationOutcome) FinalStage() Stage {
	if len(o.Stages) == 0 {
		return StageInit
	}
	return o.Stages[len(o.Stages)-1]
}

// Allocate runs Init, AllocateAdmin, AllocateClinical, VerifyRatios and
// Rebalance in order. Any error moves the run to StageFailed; the partial
// outcome is returned alongside a *StageError naming the failing stage.
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	outcome := &AllocationOutcome{Stages: []Stage{StageInit}}

	fail := func(stage Stage, err error) (*AllocationOutcome, error) {
		outcome.Stages = append(outcome.Stages, StageFailed)
		logger.Error("Roster run failed", zap.Stringer("stage", stage), zap.Error(err))
		return outcome, &StageError{Stage: stage, Err: err}
	}

	state, err := InitRoster(config)
	if err != nil {
		return fail(StageInit, err)
	}
	outcome.State = state

	logger.Info("Roster initialised",
		zap.Int("people", len(state.People)),
		zap.Int("dates", len(state.Dates)),
		zap.String("start", state.Dates[0]))

	outcome.Stages = append(outcome.Stages, StageAllocateAdmin)
	if err := AllocateAdmin(state, logger); err != nil {
		return fail(StageAllocateAdmin, err)
	}

	outcome.Stages = append(outcome.Stages, StageAllocateClinical)
	vacant, err := AllocateClinical(state, logger)
	if err != nil {
		return fail(StageAllocateClinical, err)
	}
	outcome.VacantSlots = vacant

	outcome.Stages = append(outcome.Stages, StageVerifyRatios)
	outcome.RatioDeviations = VerifyRatios(state, logger)

	outcome.Stages = append(outcome.Stages, StageRebalance)
	swaps, err := Rebalance(state, logger)
	outcome.Swaps = swaps
	if err != nil {
		return fail(StageRebalance, err)
	}

	if validationErrors := ValidateRosterState(state); len(validationErrors) > 0 {
		errs := make([]error, 0, len(validationErrors))
		for _, ve := range validationErrors {
			errs = append(errs, ve)
		}
		return fail(StageRebalance, fmt.Errorf("%w: %w", ErrInternalInconsistency, errors.Join(errs...)))
	}

	outcome.Stages = append(outcome.Stages, StageDone)

	logger.Info("Roster run complete",
		zap.Int("assignments", state.AssignmentCount()),
		zap.Int("vacant_slots", len(outcome.VacantSlots)),
		zap.Int("ratio_deviations", len(outcome.RatioDeviations)),
		zap.Int("swaps", len(outcome.Swaps)))

	return outcome, nil
}

// InitRoster validates the config and builds the initial state
func InitRoster(config AllocationConfig) (*RosterState, error) {
	if config.Weeks <= 0 {
		return nil, fmt.Errorf("%w: weeks must be positive, got %d", ErrConfiguration, config.Weeks)
	}
	if config.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrConfiguration)
	}

	catalog := config.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(config.People))
	people := make([]Person, 0, len(config.People))
	for _, person := range config.People {
		if person.Name == "" {
			return nil, fmt.Errorf("%w: person with empty name", ErrConfiguration)
		}
		if seen[person.Name] {
			return nil, fmt.Errorf("%w: duplicate person %q", ErrConfiguration, person.Name)
		}
		seen[person.Name] = true

		if person.CapacityFactor < 0 {
			return nil, fmt.Errorf("%w: %s has negative capacity factor %.2f", ErrConfiguration, person.Name, person.CapacityFactor)
		}

		if !person.Active {
			continue
		}
		people = append(people, person)
	}

	dates := DateRange(config.StartDate, config.Weeks)

	return NewRosterState(people, dates, config.Weeks, catalog), nil
}
