package services

import "github.com/PabloUrbano2000/little-lemon-api/entity"

// Caller is who is making the request, resolved once per request.
type Caller struct {
	ID            uint
	Authenticated bool
	IsManager     bool
	IsDelivery    bool
}

var Anonymous = Caller{}

func CallerFromUser(u *entity.User) Caller {
	return Caller{
		ID:            u.ID,
		Authenticated: true,
		IsManager:     u.InGroup(entity.GroupManager),
		IsDelivery:    u.InGroup(entity.GroupDeliveryCrew),
	}
}
