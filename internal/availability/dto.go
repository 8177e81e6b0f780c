package availability

const (
	StateAvailable   = "available"
	StatePending     = "pending"
	StateUnavailable = "unavailable"
)

type ComputerCard struct {
	ComputerID int64  `json:"computer_id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	Date       string `json:"date"` // YYYY-MM-DD
	Available  bool   `json:"available"`
	Pending    bool   `json:"pending"`
	State      string `json:"state"`
}

type BoardStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Pending     int `json:"pending"`
	Unavailable int `json:"unavailable"`
}

type BoardResponse struct {
	Date      string         `json:"date"`
	Lab       string         `json:"lab,omitempty"` // set when the viewer is restricted to one lab
	Computers []ComputerCard `json:"computers"`
	Stats     BoardStats     `json:"stats"`
}
