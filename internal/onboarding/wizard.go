package onboarding

// AdvanceOutcome is the result of asking the wizard to move forward.
type AdvanceOutcome int

const (
	// AdvanceRejected means validation failed; the step did not change and
	// the wizard's Errors hold the per-field messages.
	AdvanceRejected AdvanceOutcome = iota
	// AdvanceMoved means validation passed and the wizard is now on the next
	// step.
	AdvanceMoved
	// AdvanceSubmit means validation passed on the final step; the caller
	// should run the submission.
	AdvanceSubmit
)

// Wizard drives the ordered step sequence: forward moves are gated on the
// current step's validation, backward moves are unconditional, and reaching
// past the final step turns into a submission trigger instead of a move.
type Wizard struct {
	Form   *Form
	Errors FieldErrors
	step   int
}

// NewWizard starts a wizard at the given step. Out-of-range values (including
// an absent URL parameter parsed as zero) fall back to step 1.
func NewWizard(form *Form, startStep int) *Wizard {
	if form == nil {
		form = NewForm()
	}
	return &Wizard{
		Form:   form,
		Errors: FieldErrors{},
		step:   ClampStep(startStep),
	}
}

// Step reports the current 1-based position.
func (wizard *Wizard) Step() int {
	return wizard.step
}

// CurrentStep returns the descriptor for the current position.
func (wizard *Wizard) CurrentStep() Step {
	step, _ := StepByID(wizard.step)
	return step
}

// Advance validates the current step's field subset and, on success, either
// moves forward or signals submission from the final step. On failure the
// position is unchanged and Errors carries the messages. Each attempt
// replaces the previous error set.
func (wizard *Wizard) Advance() AdvanceOutcome {
	wizard.Errors = ValidateStep(wizard.Form, wizard.step)
	if !wizard.Errors.Empty() {
		return AdvanceRejected
	}

	if wizard.step < TotalSteps {
		wizard.step++
		return AdvanceMoved
	}
	return AdvanceSubmit
}

// Retreat moves one step backward without validation. At step 1 it is a
// no-op and reports false so callers skip the URL write.
func (wizard *Wizard) Retreat() bool {
	if wizard.step <= 1 {
		return false
	}
	wizard.step--
	return true
}
