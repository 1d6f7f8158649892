package pipeline

import "fmt"

// Stage is a step of a generation run. Stages run strictly in the order
// declared below; any failure ends the run in the stage where it happened.
type Stage string

const (
	StageInit          Stage = "init"
	StageBuildRegistry Stage = "build_registry"
	StagePrepareOutput Stage = "prepare_output"
	StageGenerateTrain Stage = "generate_train"
	StageGenerateVal   Stage = "generate_val"
	StageWriteManifest Stage = "write_manifest"
	StageArchive       Stage = "archive"
	StageDone          Stage = "done"
)

// StageError records the stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
