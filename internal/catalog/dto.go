package catalog

import "labloan-backend/internal/directory"

type ComputerResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type CreateComputerRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// SetScheduleRequest selects computers by id, or by location when ComputerIDs
// is empty. An empty location selects every computer. To defaults to From.
type SetScheduleRequest struct {
	ComputerIDs []int64 `json:"computer_ids"`
	Location    string  `json:"location"`
	From        string  `json:"from" binding:"required"`
	To          string  `json:"to"`
	Available   *bool   `json:"available" binding:"required"`
}

type ScheduleResult struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Available bool   `json:"available"`
	Computers int    `json:"computers"`
	Slots     int    `json:"slots"`
}

func toComputerResponse(c directory.Computer) ComputerResponse {
	return ComputerResponse{ID: c.ID, Name: c.Name, Location: c.Location}
}
