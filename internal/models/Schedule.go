package models

import "time"

type Run struct {
	ID          int        `json:"id"`
	Event       int        `json:"event"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Category    string     `json:"category"`
	Console     string     `json:"console"`
	Order       *int       `json:"order"`
	RunTime     string     `json:"run_time"`
	SetupTime   string     `json:"setup_time"`
	AnchorTime  *time.Time `json:"anchor_time"`
	StartTime   *time.Time `json:"starttime"`
	EndTime     *time.Time `json:"endtime"`
	Runners     []int      `json:"runners"`
}

type Interview struct {
	ID           int    `json:"id"`
	Event        int    `json:"event"`
	Order        int    `json:"order"`
	Suborder     int    `json:"suborder"`
	Topic        string `json:"topic"`
	Interviewers string `json:"interviewers"`
	Length       string `json:"length"`
	Public       bool   `json:"public"`
}

type Ad struct {
	ID       int    `json:"id"`
	Event    int    `json:"event"`
	Order    int    `json:"order"`
	Suborder int    `json:"suborder"`
	AdName   string `json:"ad_name"`
	AdType   string `json:"ad_type"`
	Sponsor  string `json:"sponsor_name"`
	Length   string `json:"length"`
}

// RunPatch holds the editable fields of a run. Nil fields are left untouched.
type RunPatch struct {
	Name       *string    `json:"name,omitempty"`
	Category   *string    `json:"category,omitempty"`
	Console    *string    `json:"console,omitempty"`
	RunTime    *string    `json:"run_time,omitempty"`
	SetupTime  *string    `json:"setup_time,omitempty"`
	AnchorTime *time.Time `json:"anchor_time,omitempty"`
}

// RunMove places a run before or after another run. With both targets nil
// the run is unordered.
type RunMove struct {
	Before *int `json:"before,omitempty"`
	After  *int `json:"after,omitempty"`
}
