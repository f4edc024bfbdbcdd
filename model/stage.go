package model

// Stage identifies one step of the fixed case pipeline
type Stage string

const (
	StageIntake     Stage = "INTAKE"
	StageUnderstand Stage = "UNDERSTAND"
	StagePrepare    Stage = "PREPARE"
	StageAsk        Stage = "ASK"
	StageWait       Stage = "WAIT"
	StageRetrieve   Stage = "RETRIEVE"
	StageDecide     Stage = "DECIDE"
	StageUpdate     Stage = "UPDATE"
	StageCreate     Stage = "CREATE"
	StageDo         Stage = "DO"
	StageComplete   Stage = "COMPLETE"
)

var stageOrder = []Stage{
	StageIntake,
	StageUnderstand,
	StagePrepare,
	StageAsk,
	StageWait,
	StageRetrieve,
	StageDecide,
	StageUpdate,
	StageCreate,
	StageDo,
	StageComplete,
}

// Stages returns the pipeline order; INTAKE is the unique initial stage and
// COMPLETE the unique terminal one.
func Stages() []Stage {
	result := make([]Stage, len(stageOrder))
	copy(result, stageOrder)
	return result
}

// StageCount returns the number of pipeline stages
func StageCount() int {
	return len(stageOrder)
}

// Index returns the position of the stage in the pipeline, or -1 when the
// stage is not part of it.
func (s Stage) Index() int {
	for i, candidate := range stageOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// IsValid returns true if the stage belongs to the pipeline
func (s Stage) IsValid() bool {
	return s.Index() != -1
}

// IsTerminal returns true for the terminal stage
func (s Stage) IsTerminal() bool {
	return s == StageComplete
}

// Next returns the stage following this one, with ok false at the terminal
// stage or for an unknown stage.
func (s Stage) Next() (Stage, bool) {
	index := s.Index()
	if index == -1 || index+1 >= len(stageOrder) {
		return "", false
	}
	return stageOrder[index+1], true
}
