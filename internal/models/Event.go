package models

import (
	"slices"
	"time"
)

type Event struct {
	ID                  int       `json:"id"`
	Short               string    `json:"short"`
	Name                string    `json:"name"`
	Currency            string    `json:"paypalcurrency"`
	Datetime            time.Time `json:"datetime"`
	Timezone            string    `json:"timezone"`
	Locked              bool      `json:"locked"`
	UseOneStepScreening bool      `json:"use_one_step_screening"`
}

// Me describes the operator the tracker session belongs to.
type Me struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	SuperUser   bool     `json:"superuser"`
	StaffStatus bool     `json:"staff"`
	Permissions []string `json:"permissions"`
}

func (m *Me) HasPermission(perm string) bool {
	if m == nil {
		return false
	}
	return m.SuperUser || slices.Contains(m.Permissions, perm)
}
