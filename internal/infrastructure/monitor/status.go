package monitor

import "time"

// Status reports the health of the optional backends. A backend that is not
// configured reports enabled=false and counts as healthy.
type Status struct {
	Postgres    Backend   `json:"postgres"`
	Redis       Backend   `json:"redis"`
	Archive     Backend   `json:"archive"`
	ArchiveSize int       `json:"archive_size"`
	LastCheck   time.Time `json:"last_check"`
}

type Backend struct {
	Enabled bool `json:"enabled"`
	Online  bool `json:"online"`
}

func (b Backend) Healthy() bool {
	return !b.Enabled || b.Online
}
