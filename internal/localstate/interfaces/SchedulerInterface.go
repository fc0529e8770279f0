package interfaces

// SchedulerInterface owns the periodic jobs: persisting the local slice and
// refreshing donations from the tracker.
type SchedulerInterface interface {
	// Init starts the persist and refresh jobs.
	Init()
	Stop()
	// Restore loads the local slice from disk. A missing file is not an error.
	Restore() error
	// Persist writes the local slice now, outside the persist interval.
	Persist() error
}
