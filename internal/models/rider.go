package models

// Rider is a championship roster entry.
type Rider struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	CarNumber int    `json:"number"`
	Team      string `json:"team,omitempty"`
}

// DisplayName returns the rider's full name.
func (r Rider) DisplayName() string {
	if r.Surname == "" {
		return r.Name
	}
	if r.Name == "" {
		return r.Surname
	}
	return r.Name + " " + r.Surname
}
