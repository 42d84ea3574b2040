package models

import (
	"holdings-api/internal/mapper"
)

// EmployeesTable is the table behind /api/employees
const EmployeesTable = "employees"

// DefaultGreetingName is used by /hello when no name is given
const DefaultGreetingName = "Jacob"

// ListResponse wraps a list of records with its size
type ListResponse struct {
	Items []mapper.Record `json:"items"`
	Count int             `json:"count"`
}

// NewListResponse builds a ListResponse, never encoding items as null
func NewListResponse(items []mapper.Record) *ListResponse {
	if items == nil {
		items = []mapper.Record{}
	}
	return &ListResponse{
		Items: items,
		Count: len(items),
	}
}

// Greeting is the /hello response body
type Greeting struct {
	Message string `json:"message"`
}

// HealthStatus is the /api/health response body
type HealthStatus struct {
	OK         bool   `json:"ok"`
	ServerTime string `json:"server_time"`
}
