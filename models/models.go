package models

import (
	"errors"
)

// ErrRoomNotFound is returned when a room is not in the corpus
var ErrRoomNotFound = errors.New("room not found")

// ErrDuplicateRoom is returned when a room with the same id is already in the corpus
var ErrDuplicateRoom = errors.New("room already exists")

// Room is a single listing. It is created by a successful submission and only
// ever removed, never edited in place.
type Room struct {
	ID           string `json:"id" yaml:"id" mapstructure:"id"`
	Label        string `json:"label" yaml:"label" mapstructure:"label"`
	SpaceID      int    `json:"spaceId,omitempty" yaml:"spaceId,omitempty" mapstructure:"spaceId"`
	Neighborhood string `json:"neighborhood,omitempty" yaml:"neighborhood,omitempty" mapstructure:"neighborhood"`
	City         string `json:"city" yaml:"city" mapstructure:"city"`
	Tier         string `json:"tier" yaml:"tier" mapstructure:"tier"`
	Capacity     int    `json:"capacity,omitempty" yaml:"capacity,omitempty" mapstructure:"capacity"`
	Size         string `json:"size" yaml:"size" mapstructure:"size"`
	Credits      int    `json:"credits" yaml:"credits" mapstructure:"credits"`
	Status       int    `json:"status" yaml:"status" mapstructure:"status"`
	Image        string `json:"image" yaml:"image" mapstructure:"image"`
	Lat          string `json:"lat,omitempty" yaml:"lat,omitempty" mapstructure:"lat"`
	Long         string `json:"long,omitempty" yaml:"long,omitempty" mapstructure:"long"`
	Description  string `json:"description" yaml:"description" mapstructure:"description"`
}

// Operation is the mutation a submission asks for.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationDelete Operation = "delete"
)

// ParseOperation maps a form intent onto an Operation. An empty intent means create.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case "", OperationCreate:
		return OperationCreate, nil
	case OperationDelete:
		return OperationDelete, nil
	}
	return "", errors.New("unknown operation: " + s)
}
