package types

import "fmt"

// ConfigurationError reports a routing table miss or an unregistered
// provider. It aborts a run before any stage executes.
type ConfigurationError struct {
	Stage   string
	Ability string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Ability == "" {
		return fmt.Sprintf("configuration error at stage %v: %v", e.Stage, e.Reason)
	}
	return fmt.Sprintf("configuration error at stage %v: ability %v %v", e.Stage, e.Ability, e.Reason)
}

func NewConfigurationError(stage, ability, reason string) error {
	return &ConfigurationError{Stage: stage, Ability: ability, Reason: reason}
}

// ValidationError reports a malformed input payload; no case state is
// created when it is raised.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload field %v: %v", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AbilityFailure reports that a provider could not deliver an ability result.
// The invoker absorbs it: one retry, then the registered fallback.
type AbilityFailure struct {
	Ability  string
	Provider string
	Reason   string
}

func (e *AbilityFailure) Error() string {
	return fmt.Sprintf("ability %v failed on provider %v: %v", e.Ability, e.Provider, e.Reason)
}

func NewAbilityFailure(ability, provider, reason string) error {
	return &AbilityFailure{Ability: ability, Provider: provider, Reason: reason}
}

// EngineFault reports an invariant violation inside the stage engine,
// carrying the last successfully completed stage for diagnosis.
type EngineFault struct {
	Stage  string
	Reason string
}

func (e *EngineFault) Error() string {
	return fmt.Sprintf("engine fault after stage %v: %v", e.Stage, e.Reason)
}

func NewEngineFault(stage, reason string) error {
	return &EngineFault{Stage: stage, Reason: reason}
}

func NewAbilityNotFoundError(name string) error {
	return fmt.Errorf("ability %v not found", name)
}

func NewProviderNotFoundError(name string) error {
	return fmt.Errorf("provider %v not found", name)
}
