package models

const LocalStateVersion = 1

type ProcessingMode string

const (
	ModeFlag    ProcessingMode = "flag"
	ModeConfirm ProcessingMode = "confirm"
	ModeOneStep ProcessingMode = "onestep"
)

func (m ProcessingMode) Valid() bool {
	switch m {
	case ModeFlag, ModeConfirm, ModeOneStep:
		return true
	}
	return false
}

type ProcessingSettings struct {
	Partition      int            `json:"partition"`
	PartitionCount int            `json:"partition_count"`
	Mode           ProcessingMode `json:"mode"`
}

type UserPreferences struct {
	Theme              string `json:"theme"`
	RelativeTimestamps bool   `json:"relative_timestamps"`
}

// LocalState is the only durable state owned by the console. Each slice is
// stored under its own namespace key.
type LocalState struct {
	Version     int                 `json:"version"`
	Groups      []*DonationGroup    `json:"donation-groups"`
	Keywords    []string            `json:"search-keywords"`
	Processing  *ProcessingSettings `json:"processing-settings"`
	Preferences *UserPreferences    `json:"user-preferences"`
}
