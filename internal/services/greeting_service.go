package services

import (
	"strings"

	"holdings-api/internal/models"
)

type greetingService struct {
	defaultName string
}

// NewGreetingService creates a greeting service. An empty defaultName falls
// back to models.DefaultGreetingName.
func NewGreetingService(defaultName string) GreetingService {
	if strings.TrimSpace(defaultName) == "" {
		defaultName = models.DefaultGreetingName
	}
	return &greetingService{defaultName: defaultName}
}

// Greet greets name, or the default name when name is empty
func (s *greetingService) Greet(name string) *models.Greeting {
	if name == "" {
		name = s.defaultName
	}
	return &models.Greeting{Message: "Hello " + name}
}
